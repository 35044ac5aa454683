package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prepyds/ydsprep-backend/internal/content"
	"github.com/prepyds/ydsprep-backend/internal/middleware"
	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/prepyds/ydsprep-backend/internal/response"
	"github.com/prepyds/ydsprep-backend/internal/service"
	"github.com/prepyds/ydsprep-backend/internal/session"
	"github.com/prepyds/ydsprep-backend/internal/store"
	"github.com/prepyds/ydsprep-backend/internal/validator"
)

// SessionHandler drives the exam-taking flow over HTTP. The WebSocket stream
// in WSHandler covers the same actions for clients that keep a socket open;
// both paths converge on the same SessionService.
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Start godoc
// POST /api/v1/exams/:examId/session
// Opens or resumes a session. A completed exam cannot be reopened: the
// response carries the existing result so the client can redirect.
func (h *SessionHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, prior, err := h.sessionService.Start(c.Request.Context(), claims.UserID, c.Param("examId"))
	if err != nil {
		switch {
		case errors.Is(err, session.ErrExamCompleted):
			response.FailWithData(c, http.StatusConflict, response.ErrExamCompleted, gin.H{"result": prior})
		case errors.Is(err, content.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// State godoc
// GET /api/v1/exams/:examId/session
// Returns a snapshot of the live session.
func (h *SessionHandler) State(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.sessionService.State(claims.UserID, c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Paper godoc
// GET /api/v1/exams/:examId/session/paper
// Returns the questions without grading fields. Requires a live session.
func (h *SessionHandler) Paper(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questions, err := h.sessionService.Paper(claims.UserID, c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Answer godoc
// POST /api/v1/exams/:examId/session/answer
// Records a choice for one question.
func (h *SessionHandler) Answer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.Answer(claims.UserID, c.Param("examId"), req.QuestionID, req.Label)
	if err != nil {
		failSessionAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Flag godoc
// POST /api/v1/exams/:examId/session/flag
// Toggles the review flag on one question.
func (h *SessionHandler) Flag(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.FlagRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.Flag(claims.UserID, c.Param("examId"), req.QuestionID)
	if err != nil {
		failSessionAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Navigate godoc
// POST /api/v1/exams/:examId/session/navigate
// Moves the current question pointer by delta or to an absolute index.
func (h *SessionHandler) Navigate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.NavigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	view, err := h.sessionService.Navigate(claims.UserID, c.Param("examId"), req.Delta, req.Index)
	if err != nil {
		failSessionAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// EnterReview godoc
// POST /api/v1/exams/:examId/session/review
// Switches to read-only review and pauses the countdown.
func (h *SessionHandler) EnterReview(c *gin.Context) {
	h.setReview(c, true)
}

// ExitReview godoc
// DELETE /api/v1/exams/:examId/session/review
// Resumes answering and the countdown.
func (h *SessionHandler) ExitReview(c *gin.Context) {
	h.setReview(c, false)
}

func (h *SessionHandler) setReview(c *gin.Context, enter bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.sessionService.SetReview(claims.UserID, c.Param("examId"), enter)
	if err != nil {
		failSessionAction(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": view})
}

// Submit godoc
// POST /api/v1/exams/:examId/session/submit
// Grades and finalizes the attempt.
func (h *SessionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.sessionService.Submit(claims.UserID, c.Param("examId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
		case errors.Is(err, session.ErrAlreadySubmitted):
			response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrSubmitFailed)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// CloseSession godoc
// DELETE /api/v1/exams/:examId/session
// Tears down the live session without submitting; the saved partial remains.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	h.sessionService.CloseSession(claims.UserID, c.Param("examId"))
	response.Success(c, http.StatusOK, gin.H{})
}

// History godoc
// GET /api/v1/results
// Returns the student's full result history.
func (h *SessionHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.sessionService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// AnswerSheet godoc
// GET /api/v1/exams/:examId/results/sheet
// Returns the graded questions with the student's answers overlaid. Only
// available once the exam is completed.
func (h *SessionHandler) AnswerSheet(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, entries, err := h.sessionService.AnswerSheet(c.Request.Context(), claims.UserID, c.Param("examId"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, content.ErrExamNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result, "sheet": entries})
}

// failSessionAction maps session action errors to API error codes.
func failSessionAction(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveSession)
	case errors.Is(err, session.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, session.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
