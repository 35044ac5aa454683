package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prepyds/ydsprep-backend/internal/middleware"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/response"
	"github.com/prepyds/ydsprep-backend/internal/service"
	"github.com/prepyds/ydsprep-backend/internal/validator"
)

// TutorHandler handles the ask-the-tutor endpoints for both roles.
type TutorHandler struct {
	tutorService *service.TutorService
}

// NewTutorHandler creates a new TutorHandler.
func NewTutorHandler(tutorService *service.TutorService) *TutorHandler {
	return &TutorHandler{tutorService: tutorService}
}

// Ask godoc
// POST /api/v1/tutor-questions
// Student submits a question to the tutor inbox.
func (h *TutorHandler) Ask(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AskTutorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.tutorService.Ask(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": q})
}

// MyQuestions godoc
// GET /api/v1/tutor-questions
// Student lists their own questions, newest first.
func (h *TutorHandler) MyQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questions, err := h.tutorService.MyQuestions(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Inbox godoc
// GET /api/v1/tutor/inbox
// Tutor lists all open questions, oldest first.
func (h *TutorHandler) Inbox(c *gin.Context) {
	questions, err := h.tutorService.Inbox(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Answer godoc
// POST /api/v1/tutor/inbox/:questionId/answer
// Tutor answers an open question.
func (h *TutorHandler) Answer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AnswerTutorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.tutorService.Answer(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTutorQuestionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuestionClosed):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": q})
}
