package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamereview/backend/internal/apperr"
	"gamereview/backend/internal/hub"
	"gamereview/backend/internal/metrics"
	"gamereview/backend/internal/middleware"
	"gamereview/backend/internal/service"
)

// Handler serves the HTTP API on top of the auth and review services.
type Handler struct {
	auth    *service.AuthService
	reviews *service.ReviewService
	hub     *hub.Hub
	metrics *metrics.Recorder
	log     *zap.Logger
}

func New(auth *service.AuthService, reviews *service.ReviewService, h *hub.Hub, m *metrics.Recorder, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		auth:    auth,
		reviews: reviews,
		hub:     h,
		metrics: m,
		log:     log,
	}
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Message string `json:"message" example:"An error message"`
}

// respondError writes err as {"message": ...} with the status of its kind.
// The cause of internal errors is logged and never sent to the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.log.Error("request failed",
			zap.Error(err),
			zap.String("route", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
	}
	c.JSON(kind.Status(), ErrorResponse{Message: apperr.PublicMessage(err)})
}
