package api

import "github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/presentation"

type CreatePresentationRequest struct {
	Topic        string `json:"topic" binding:"required"`
	SlidesCount  int    `json:"slides_count" binding:"required,oneof=10 15 20"`
	Style        string `json:"style" binding:"omitempty,oneof=academic creative minimal"`
	Requirements string `json:"requirements"`
}

// CreatePresentationResponse is presentation.Response; the link lives in
// the "presentation" field.
type CreatePresentationResponse = presentation.Response

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
