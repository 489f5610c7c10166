// Package handler exposes interview coaching over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"facecounter_backend/internal/feature/interview/domain/entity"
	"facecounter_backend/internal/feature/interview/transport/http/dto"
	"facecounter_backend/internal/feature/interview/usecase"
	"facecounter_backend/internal/platform/session"
)

// CoachUsecase is the coaching behavior the handler needs.
type CoachUsecase interface {
	Reply(ctx context.Context, userID string, t entity.Transcript) (entity.Message, error)
	Feedback(ctx context.Context, t entity.Transcript) (*entity.Feedback, error)
}

// InterviewHandler serves /api/interview/*. Routes must sit behind session.Required.
type InterviewHandler struct {
	coach CoachUsecase
}

// NewInterviewHandler creates a new instance of InterviewHandler.
func NewInterviewHandler(coach CoachUsecase) *InterviewHandler {
	return &InterviewHandler{coach: coach}
}

// Reply handles POST /api/interview/reply.
func (h *InterviewHandler) Reply(c *gin.Context) {
	userID, ok := session.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req dto.TranscriptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.coach.Reply(c.Request.Context(), userID, req.ToEntity())
	if err != nil {
		h.fail(c, "reply", err)
		return
	}
	c.JSON(http.StatusOK, dto.ReplyRes{Message: dto.MessageDTO{Role: msg.Role, Content: msg.Content}})
}

// Feedback handles POST /api/interview/feedback.
func (h *InterviewHandler) Feedback(c *gin.Context) {
	var req dto.TranscriptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	fb, err := h.coach.Feedback(c.Request.Context(), req.ToEntity())
	if err != nil {
		h.fail(c, "feedback", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewFeedbackRes(fb))
}

func (h *InterviewHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmptyTranscript), errors.Is(err, usecase.ErrInvalidMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrModelUnavailable), errors.Is(err, usecase.ErrMalformedFeedback):
		slog.Error("interview coach failed", "op", op, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "抱歉，我遇到了一些问题。请稍后再试。"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		slog.Error("interview coach failed", "op", op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
