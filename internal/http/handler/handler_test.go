package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"policyaudit/internal/extract"
	"policyaudit/internal/framework"
	"policyaudit/internal/http/middleware"
	"policyaudit/internal/llm"
	"policyaudit/internal/model"
	"policyaudit/internal/service"
	serviceMocks "policyaudit/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/health", HealthCheck())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])
}

func TestReadinessCheck(t *testing.T) {
	mockSvc := new(serviceMocks.MockComplianceService)
	app := fiber.New()
	app.Get("/ready", ReadinessCheck(mockSvc))

	t.Run("ready", func(t *testing.T) {
		mockSvc.On("Ready", mock.Anything).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("archive down", func(t *testing.T) {
		mockSvc.On("Ready", mock.Anything).Return(errors.New("bucket missing")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestListFrameworks(t *testing.T) {
	catalog, err := framework.Parse([]byte(`
frameworks:
  - name: GDPR Art. 17
    description: Right to erasure
  - name: HIPAA
`))
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/frameworks", ListFrameworks(catalog))

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/frameworks", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Frameworks []model.Framework `json:"frameworks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Frameworks, 2)
	assert.Equal(t, "GDPR Art. 17", body.Frameworks[0].Name)
	assert.Equal(t, "HIPAA", body.Frameworks[1].Name)
}

func TestAnalyzeDocument(t *testing.T) {
	report := model.PolicyReport{"findings": []any{map[string]any{
		"type":              "VIOLATION",
		"title":             "Retention period undefined",
		"section":           "4.2 Data retention",
		"message":           "No retention schedule is defined.",
		"location_metadata": map[string]any{"page_number": 2, "exact_quote": "kept indefinitely"},
	}}}

	tests := []struct {
		name       string
		filename   string
		fields     map[string]string
		setupMocks func(m *serviceMocks.MockComplianceService)
		wantStatus int
		wantCode   string
	}{
		{
			name:     "success with frameworks and legacy field",
			filename: "policy.PDF",
			fields: map[string]string{
				"frameworks": `["GDPR Art. 17","HIPAA"]`,
				"framework":  "SOC 2 Type II",
			},
			setupMocks: func(m *serviceMocks.MockComplianceService) {
				m.On("AnalyzeDocument", mock.Anything, mock.MatchedBy(func(in service.AnalyzeInput) bool {
					return in.Filename == "policy.PDF" &&
						assert.ObjectsAreEqual([]string{"GDPR Art. 17", "HIPAA", "SOC 2 Type II"}, in.Frameworks) &&
						in.Size == int64(len("%PDF-1.4 fake")) &&
						in.RequestID == "req-1"
				})).Return(report, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no file",
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE_REQUIRED",
		},
		{
			name:       "blank filename",
			filename:   "   ",
			wantStatus: http.StatusBadRequest,
			wantCode:   "FILE_NAME_REQUIRED",
		},
		{
			name:       "not a pdf",
			filename:   "policy.docx",
			wantStatus: http.StatusBadRequest,
			wantCode:   "UNSUPPORTED_FILE_TYPE",
		},
		{
			name:       "malformed frameworks",
			filename:   "policy.pdf",
			fields:     map[string]string{"frameworks": "GDPR"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FRAMEWORKS",
		},
		{
			name:     "extraction failure",
			filename: "policy.pdf",
			setupMocks: func(m *serviceMocks.MockComplianceService) {
				m.On("AnalyzeDocument", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("analyze: %w", &extract.ExtractionError{Reason: "malformed PDF"})).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "EXTRACTION_FAILED",
		},
		{
			name:     "inference failure",
			filename: "policy.pdf",
			setupMocks: func(m *serviceMocks.MockComplianceService) {
				m.On("AnalyzeDocument", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: throttled", llm.ErrInference)).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INFERENCE_FAILED",
		},
		{
			name:     "unexpected failure",
			filename: "policy.pdf",
			setupMocks: func(m *serviceMocks.MockComplianceService) {
				m.On("AnalyzeDocument", mock.Anything, mock.Anything).
					Return(nil, errors.New("boom")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockComplianceService)
			if tt.setupMocks != nil {
				tt.setupMocks(mockSvc)
			}

			app := fiber.New()
			app.Use(middleware.RequestID())
			app.Post("/analyze", AnalyzeDocument(mockSvc, zap.NewNop()))

			body, contentType := multipartBody(t, tt.filename, []byte("%PDF-1.4 fake"), tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/analyze", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set(middleware.RequestIDHeader, "req-1")
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				res := decodeError(t, resp)
				assert.Equal(t, tt.wantCode, res.Code)
				assert.NotEmpty(t, res.Error)
				assert.Equal(t, "req-1", res.RequestID)
			} else {
				want, err := json.Marshal(report)
				require.NoError(t, err)
				got, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.JSONEq(t, string(want), string(got))
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestAssistantChat(t *testing.T) {
	guidance := model.PolicyGuidance{
		"answer":                "Define a retention schedule.",
		"referenced_frameworks": []string{"GDPR Art. 17"},
		"relevant_articles":     []any{map[string]any{"title": "Art. 5(1)(e)", "source": "GDPR", "url": ""}},
	}

	tests := []struct {
		name       string
		body       string
		setupMocks func(m *serviceMocks.MockComplianceService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"message":"How long can we keep CVs?","frameworks":["GDPR Art. 17"]}`,
			setupMocks: func(m *serviceMocks.MockComplianceService) {
				m.On("Chat", mock.Anything, mock.MatchedBy(func(in service.ChatInput) bool {
					return in.Message == "How long can we keep CVs?" && len(in.Frameworks) == 1
				})).Return(guidance, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json",
			body:       `{"message":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
		{
			name:       "blank message",
			body:       `{"message":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "MESSAGE_REQUIRED",
		},
		{
			name: "no tool call",
			body: `{"message":"hi"}`,
			setupMocks: func(m *serviceMocks.MockComplianceService) {
				m.On("Chat", mock.Anything, mock.Anything).Return(nil, service.ErrEmptyResult).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "EMPTY_RESULT",
		},
		{
			name: "inference failure",
			body: `{"message":"hi"}`,
			setupMocks: func(m *serviceMocks.MockComplianceService) {
				m.On("Chat", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("%w: timeout", llm.ErrInference)).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INFERENCE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockComplianceService)
			if tt.setupMocks != nil {
				tt.setupMocks(mockSvc)
			}

			app := fiber.New()
			app.Post("/chat", AssistantChat(mockSvc, zap.NewNop()))

			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Code)
			} else {
				want, err := json.Marshal(guidance)
				require.NoError(t, err)
				got, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.JSONEq(t, string(want), string(got))
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	catalog, err := framework.Load("")
	require.NoError(t, err)

	mockSvc := new(serviceMocks.MockComplianceService)
	RegisterRoutes(app, mockSvc, catalog, zap.NewNop())

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Code)
	})

	t.Run("payload too large", func(t *testing.T) {
		// fiber reports a body over BodyLimit as ErrRequestEntityTooLarge.
		limited := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		limited.Post("/upload", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

		resp, err := limited.Test(httptest.NewRequest(http.MethodPost, "/upload", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "PAYLOAD_TOO_LARGE", res.Code)
		assert.Equal(t, "uploaded file is too large", res.Error)
	})

	t.Run("frameworks listed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/frameworks", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
