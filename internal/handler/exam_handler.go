package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/prepyds/ydsprep-backend/internal/middleware"
	"github.com/prepyds/ydsprep-backend/internal/response"
	"github.com/prepyds/ydsprep-backend/internal/service"
)

// ExamHandler serves the exam catalog and study material.
type ExamHandler struct {
	loader         *content.Loader
	sessionService *service.SessionService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(loader *content.Loader, sessionService *service.SessionService) *ExamHandler {
	return &ExamHandler{loader: loader, sessionService: sessionService}
}

// ListExams godoc
// GET /api/v1/exams
// Returns the exam catalog overlaid with the student's own status.
func (h *ExamHandler) ListExams(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	exams, err := h.sessionService.ExamList(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}

// GetExam godoc
// GET /api/v1/exams/:examId
// Returns one exam definition.
func (h *ExamHandler) GetExam(c *gin.Context) {
	exam, err := h.loader.GetExam(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"exam": exam})
}

// ListTopics godoc
// GET /api/v1/topics
// Returns the study topic catalog.
func (h *ExamHandler) ListTopics(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"topics": h.loader.ListTopics()})
}

// GetLesson godoc
// GET /api/v1/topics/:topicId
// Returns the lesson body for one topic.
func (h *ExamHandler) GetLesson(c *gin.Context) {
	lesson, err := h.loader.GetLesson(c.Param("topicId"))
	if err != nil {
		if errors.Is(err, content.ErrTopicNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}
