package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepyds/ydsprep-backend/internal/middleware"
	"github.com/prepyds/ydsprep-backend/internal/response"
	"github.com/prepyds/ydsprep-backend/internal/service"
)

// ProgressHandler serves the student dashboard.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Overview godoc
// GET /api/v1/progress
// Returns aggregate stats, recent results and goal progress.
func (h *ProgressHandler) Overview(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	overview, err := h.progressService.Overview(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, overview)
}

// ExamHistory godoc
// GET /api/v1/progress/exams/:examId
// Returns every attempt at one exam from the durable mirror, newest first.
func (h *ProgressHandler) ExamHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.progressService.ExamHistory(c.Request.Context(), claims.UserID, c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}
