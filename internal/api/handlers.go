package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/orchestrator"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/storage"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/pkg/errors"
)

type Handler struct {
	orchestrator *orchestrator.Orchestrator
	storage      *storage.Service
	indexPage    []byte
	logger       *logger.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, store *storage.Service, indexPage []byte, log *logger.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		storage:      store,
		indexPage:    indexPage,
		logger:       log,
	}
}

func (h *Handler) CreatePresentation(c *gin.Context) {
	var req CreatePresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid request", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
			Code:    errors.ErrCodeInvalidReq,
			Message: err.Error(),
		}})
		return
	}

	preq := presentation.NewRequest(strings.TrimSpace(req.Topic), req.SlidesCount, presentation.Style(req.Style), strings.TrimSpace(req.Requirements))
	if err := preq.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
			Code:    errors.ErrCodeInvalidReq,
			Message: err.Error(),
		}})
		return
	}

	requestID := uuid.New().String()

	result, err := h.orchestrator.Generate(c.Request.Context(), &orchestrator.GenerateRequest{
		RequestID: requestID,
		Request:   preq,
	})
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, CreatePresentationResponse{
		Presentation: result.URL,
		RequestID:    requestID,
		Title:        result.Title,
	})
}

func (h *Handler) handleError(c *gin.Context, requestID string, err error) {
	h.logger.Error("failed to generate presentation", "error", err, "request_id", requestID)

	code := errors.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case errors.ErrCodeGeminiAPI:
		status = http.StatusBadGateway
	}

	c.JSON(status, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   errors.PublicMessage(err),
		RequestID: requestID,
	}})
}

func (h *Handler) DownloadFile(c *gin.Context) {
	name := c.Param("name")
	data, err := h.storage.Open(c.Request.Context(), name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeNotFound) {
			status = http.StatusNotFound
		} else {
			h.logger.Error("failed to read file", "name", name, "error", err)
		}
		c.JSON(status, ErrorResponse{Error: ErrorBody{
			Code:    errors.Code(err),
			Message: errors.PublicMessage(err),
		}})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", data)
}

func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.indexPage)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
