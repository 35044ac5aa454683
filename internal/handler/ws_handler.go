package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prepyds/ydsprep-backend/internal/middleware"
	"github.com/prepyds/ydsprep-backend/internal/service"
	"github.com/prepyds/ydsprep-backend/internal/session"
	ws "github.com/prepyds/ydsprep-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams exam session state over WebSocket: a 1 Hz state push
// driven by the countdown, plus an action read-loop mirroring the HTTP
// session endpoints.
type WSHandler struct {
	sessionService *service.SessionService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(sessionService *service.SessionService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		sessionService: sessionService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/exams/:examId/stream?token=...
// Upgrades to WebSocket for live countdown and instant grading. The session
// must already be open via the HTTP start endpoint.
func (h *WSHandler) SessionStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	examID := c.Param("examId")
	studentID := claims.UserID

	sess, ok := h.sessionService.Session(studentID, examID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session for this exam"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.Wrap(raw)
	defer conn.Close()

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("exam_id", examID).
		Logger()

	wsLog.Info().Msg("Student connected")

	done := make(chan struct{})
	go h.pushLoop(conn, sess, done)
	defer close(done)

	for {
		var msg ws.RequestPayload
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		h.handleAction(conn, wsLog, studentID, examID, &msg)
	}
}

// pushLoop sends a state snapshot every second until the connection or
// session ends. When the timer forces a submit, the graded result is pushed
// from here.
func (h *WSHandler) pushLoop(conn *ws.Conn, sess *session.Session, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	lastPhase := sess.Phase()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			phase := sess.Phase()
			if phase == session.PhaseSubmitted && lastPhase != session.PhaseSubmitted {
				conn.WriteTyped(ws.GradedPayload{Event: ws.EventGraded, Result: sess.Result()})
				return
			}
			lastPhase = phase

			if err := conn.WriteTyped(ws.StatePayload{Event: ws.EventState, State: sess.Snapshot()}); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) handleAction(conn *ws.Conn, wsLog zerolog.Logger, studentID int, examID string, msg *ws.RequestPayload) {
	switch msg.Action {
	case ws.ActionAnswer:
		if msg.QID == "" || msg.Label == "" {
			conn.WriteError("q_id and label are required")
			return
		}
		view, err := h.sessionService.Answer(studentID, examID, msg.QID, msg.Label)
		if err != nil {
			conn.WriteError(err.Error())
			return
		}
		conn.WriteTyped(ws.StatePayload{Event: ws.EventState, State: view})

	case ws.ActionFlag:
		if msg.QID == "" {
			conn.WriteError("q_id is required")
			return
		}
		view, err := h.sessionService.Flag(studentID, examID, msg.QID)
		if err != nil {
			conn.WriteError(err.Error())
			return
		}
		conn.WriteTyped(ws.StatePayload{Event: ws.EventState, State: view})

	case ws.ActionNavigate:
		view, err := h.sessionService.Navigate(studentID, examID, msg.Delta, msg.Index)
		if err != nil {
			conn.WriteError(err.Error())
			return
		}
		conn.WriteTyped(ws.StatePayload{Event: ws.EventState, State: view})

	case ws.ActionReview:
		view, err := h.sessionService.SetReview(studentID, examID, msg.Enter)
		if err != nil {
			conn.WriteError(err.Error())
			return
		}
		conn.WriteTyped(ws.StatePayload{Event: ws.EventState, State: view})

	case ws.ActionSubmit:
		result, err := h.sessionService.Submit(studentID, examID)
		if err != nil {
			wsLog.Error().Err(err).Msg("Submit failed")
			conn.WriteTyped(ws.ErrorResponse{Event: ws.EventSubmitFailed, Error: err.Error()})
			return
		}
		conn.WriteTyped(ws.GradedPayload{Event: ws.EventGraded, Result: result})

	case ws.ActionPing:
		conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})

	default:
		wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		conn.WriteError("unknown action: " + string(msg.Action))
	}
}
