package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"policyaudit/internal/extract"
	"policyaudit/internal/llm"
	"policyaudit/internal/model"
	"policyaudit/internal/service"
)

// AnalyzeDocument godoc
// @Summary Analyze a policy PDF for violations and compliances
// @Tags compliance
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Param frameworks formData string false "JSON array of framework names"
// @Success 200 {object} model.PolicyReport
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/analyze-document [post]
func AnalyzeDocument(svc service.ComplianceService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "No file provided")
		}
		if strings.TrimSpace(fh.Filename) == "" {
			return writeError(c, fiber.StatusBadRequest, "FILE_NAME_REQUIRED", "No file selected")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "Only PDF files are supported")
		}

		frameworks, err := formFrameworks(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FRAMEWORKS", "frameworks must be a JSON array of strings")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		report, err := svc.AnalyzeDocument(c.UserContext(), service.AnalyzeInput{
			Reader:      f,
			Size:        fh.Size,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Frameworks:  frameworks,
			RequestID:   requestIDFromCtx(c),
		})
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(report)
	}
}

// AssistantChat godoc
// @Summary Ask the compliance assistant a question
// @Tags compliance
// @Accept json
// @Produce json
// @Param body body model.ChatRequest true "Question and optional frameworks"
// @Success 200 {object} model.PolicyGuidance
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/assistant/chat [post]
func AssistantChat(svc service.ComplianceService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.ChatRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if strings.TrimSpace(req.Message) == "" {
			return writeError(c, fiber.StatusBadRequest, "MESSAGE_REQUIRED", "Message is required")
		}

		guidance, err := svc.Chat(c.UserContext(), service.ChatInput{
			Message:    req.Message,
			Frameworks: req.Frameworks,
			RequestID:  requestIDFromCtx(c),
		})
		if err != nil {
			return writeServiceError(c, logger, err)
		}
		return c.JSON(guidance)
	}
}

// formFrameworks reads the "frameworks" JSON array and the single legacy
// "framework" field.
func formFrameworks(c *fiber.Ctx) ([]string, error) {
	var out []string
	if raw := strings.TrimSpace(c.FormValue("frameworks")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return nil, err
		}
	}
	if legacy := strings.TrimSpace(c.FormValue("framework")); legacy != "" {
		out = append(out, legacy)
	}
	return out, nil
}

// writeServiceError logs err and maps it to a stable error code.
func writeServiceError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	rid := requestIDFromCtx(c)
	var extErr *extract.ExtractionError

	switch {
	case errors.As(err, &extErr):
		logger.Error("document extraction failed", zap.String("request_id", rid), zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "EXTRACTION_FAILED", "Could not extract text from the document")
	case errors.Is(err, service.ErrMessageRequired):
		return writeError(c, fiber.StatusBadRequest, "MESSAGE_REQUIRED", "Message is required")
	case errors.Is(err, service.ErrEmptyResult):
		logger.Error("model produced no structured response", zap.String("request_id", rid))
		return writeError(c, fiber.StatusInternalServerError, "EMPTY_RESULT", "No response generated")
	case errors.Is(err, llm.ErrInference):
		logger.Error("inference failed", zap.String("request_id", rid), zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "INFERENCE_FAILED", "The analysis service failed to respond")
	default:
		logger.Error("request failed", zap.String("request_id", rid), zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
