package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"policyaudit/internal/extract"
	"policyaudit/internal/llm"
	"policyaudit/internal/metrics"
	"policyaudit/internal/model"
	"policyaudit/internal/prompt"
	"policyaudit/internal/schema"
	"policyaudit/internal/storage"
)

var (
	ErrMessageRequired = errors.New("message is required")
	// ErrEmptyResult means the model answered without calling the requested tool.
	ErrEmptyResult = errors.New("no response generated")
)

var tracer = otel.Tracer("policyaudit/internal/service")

// AnalyzeInput is an uploaded document plus the frameworks to check it against.
type AnalyzeInput struct {
	Reader      io.ReaderAt
	Size        int64
	Filename    string
	ContentType string
	Frameworks  []string
	RequestID   string
}

// ChatInput is a free-form compliance question.
type ChatInput struct {
	Message    string
	Frameworks []string
	RequestID  string
}

// ComplianceService defines the document analysis and assistant use cases.
type ComplianceService interface {
	// AnalyzeDocument extracts the document, asks the model for findings and
	// relays the tool payload as produced. A model response without a report
	// yields an empty report, not an error: an empty findings list is a valid result.
	AnalyzeDocument(ctx context.Context, in AnalyzeInput) (model.PolicyReport, error)

	// Chat answers a question. A model response without guidance returns
	// ErrEmptyResult, since a guidance payload without an answer is not valid.
	Chat(ctx context.Context, in ChatInput) (model.PolicyGuidance, error)

	// Ready reports whether optional dependencies (the archive) are reachable.
	Ready(ctx context.Context) error
}

// Option configures a complianceService.
type Option func(*complianceService)

func WithLogger(l *zap.Logger) Option {
	return func(s *complianceService) { s.logger = l }
}

// WithArchive stores every analysed upload in the given storage.
func WithArchive(st storage.Storage) Option {
	return func(s *complianceService) { s.archive = st }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *complianceService) { s.metrics = r }
}

func WithMaxTokens(n int) Option {
	return func(s *complianceService) { s.maxTokens = n }
}

func WithTemperature(t float32) Option {
	return func(s *complianceService) { s.temperature = t }
}

// WithTimeout bounds each inference call. Zero leaves the caller's deadline in place.
func WithTimeout(d time.Duration) Option {
	return func(s *complianceService) { s.timeout = d }
}

// WithStrictSchema validates tool payloads against the schema before decoding.
func WithStrictSchema(strict bool) Option {
	return func(s *complianceService) { s.strict = strict }
}

// complianceService is the concrete implementation of ComplianceService.
type complianceService struct {
	extractor   extract.DocumentTextExtractor
	client      llm.StructuredCompletionClient
	logger      *zap.Logger
	archive     storage.Storage
	metrics     *metrics.Recorder
	maxTokens   int
	temperature float32
	timeout     time.Duration
	strict      bool
	now         func() time.Time
}

// NewComplianceService constructs a ComplianceService.
func NewComplianceService(extractor extract.DocumentTextExtractor, client llm.StructuredCompletionClient, opts ...Option) ComplianceService {
	s := &complianceService{
		extractor: extractor,
		client:    client,
		logger:    zap.NewNop(),
		maxTokens: 4096,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *complianceService) AnalyzeDocument(ctx context.Context, in AnalyzeInput) (model.PolicyReport, error) {
	pages, err := s.extract(ctx, in)
	if err != nil {
		return nil, err
	}
	s.metrics.ObservePages(len(pages))

	if s.archive != nil {
		s.archiveUpload(ctx, in)
	}

	tool := schema.ReportTool()
	req := model.AnalysisRequest{Pages: pages, Frameworks: in.Frameworks}
	payload, found, err := s.dispatch(ctx, tool, prompt.BuildAnalysisPrompt(req))
	if err != nil {
		return nil, err
	}

	report := model.PolicyReport{}
	if !found {
		s.logger.Warn("model returned no structured report",
			zap.String("code", "EMPTY_RESULT"),
			zap.String("tool", tool.Name),
			zap.String("request_id", in.RequestID),
		)
		report.Normalize()
		return report, nil
	}

	if err := decodePayload(payload, &report); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", llm.ErrInference, tool.Name, err)
	}
	report.Normalize()
	s.logger.Debug("analysis complete",
		zap.Int("findings", report.FindingCount()),
		zap.String("request_id", in.RequestID),
	)
	return report, nil
}

func (s *complianceService) Chat(ctx context.Context, in ChatInput) (model.PolicyGuidance, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, ErrMessageRequired
	}

	tool := schema.GuidanceTool()
	payload, found, err := s.dispatch(ctx, tool, prompt.BuildGuidancePrompt(msg, in.Frameworks))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrEmptyResult
	}

	guidance := model.PolicyGuidance{}
	if err := decodePayload(payload, &guidance); err != nil {
		return nil, fmt.Errorf("%w: %s payload: %v", llm.ErrInference, tool.Name, err)
	}
	guidance.Normalize()
	return guidance, nil
}

// decodePayload decodes a tool input object into dst without reshaping it.
// Numbers keep their original text. An absent or null input leaves dst empty.
func decodePayload[M ~map[string]any](payload json.RawMessage, dst *M) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] != '{' {
		return errors.New("tool input is not a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*dst = M(m)
	return nil
}

func (s *complianceService) Ready(ctx context.Context) error {
	if s.archive == nil {
		return nil
	}
	return s.archive.Ping(ctx)
}

func (s *complianceService) extract(ctx context.Context, in AnalyzeInput) ([]model.ExtractedPage, error) {
	ctx, span := tracer.Start(ctx, "extract")
	defer span.End()

	pages, err := s.extractor.Extract(ctx, in.Reader, in.Size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("document.pages", len(pages)))
	return pages, nil
}

// dispatch sends one forced tool call and returns the tool input, if any.
// Failures are not retried.
func (s *complianceService) dispatch(ctx context.Context, tool schema.Tool, instruction string) (json.RawMessage, bool, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := tracer.Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", s.client.Provider()),
		attribute.String("llm.tool", tool.Name),
	)

	start := s.now()
	resp, err := s.client.Complete(ctx, llm.Request{
		Prompt:      instruction,
		Tool:        tool,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.ObserveLLM(s.client.Provider(), tool.Name, metrics.OutcomeError, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference failed")
		if !errors.Is(err, llm.ErrInference) {
			err = fmt.Errorf("%w: %w", llm.ErrInference, err)
		}
		return nil, false, err
	}

	payload, found := llm.FindToolInput(resp, tool.Name)
	if !found {
		s.metrics.ObserveLLM(s.client.Provider(), tool.Name, metrics.OutcomeEmpty, elapsed)
		span.SetAttributes(attribute.Bool("llm.tool_called", false))
		return nil, false, nil
	}
	span.SetAttributes(attribute.Bool("llm.tool_called", true))

	if s.strict {
		if err := tool.Validate(payload); err != nil {
			s.metrics.ObserveLLM(s.client.Provider(), tool.Name, metrics.OutcomeError, elapsed)
			span.SetStatus(codes.Error, "schema mismatch")
			return nil, false, fmt.Errorf("%w: %w", llm.ErrInference, err)
		}
	}
	s.metrics.ObserveLLM(s.client.Provider(), tool.Name, metrics.OutcomeSuccess, elapsed)
	return payload, true, nil
}

// archiveUpload stores the upload under uploads/yyyy/mm/dd/<uuid>.pdf.
// Archive failures are logged and never fail the analysis.
func (s *complianceService) archiveUpload(ctx context.Context, in AnalyzeInput) {
	ctx, span := tracer.Start(ctx, "archive.put")
	defer span.End()

	ext := strings.ToLower(path.Ext(in.Filename))
	if ext == "" {
		ext = ".pdf"
	}
	key := path.Join("uploads", s.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}

	_, err := s.archive.Put(ctx, key, io.NewSectionReader(in.Reader, 0, in.Size), storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
			"request-id":        in.RequestID,
		},
	})
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("archive upload failed",
			zap.String("key", key),
			zap.String("request_id", in.RequestID),
			zap.Error(err),
		)
		return
	}
	span.SetAttributes(attribute.String("archive.key", key))
}
