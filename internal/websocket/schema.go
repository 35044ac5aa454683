package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer   Action = "answer"
	ActionFlag     Action = "flag"
	ActionNavigate Action = "navigate"
	ActionReview   Action = "review"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
)

// RequestPayload is the single client message shape; unused fields are
// ignored per action.
type RequestPayload struct {
	Action Action `json:"action"`
	QID    string `json:"q_id,omitempty"`
	Label  string `json:"label,omitempty"`
	Delta  *int   `json:"delta,omitempty"`
	Index  *int   `json:"index,omitempty"`
	// Enter toggles review mode on ActionReview.
	Enter bool `json:"enter,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventState Event = "state"
	// EventGraded carries the final result after submit (manual or timer-forced).
	EventGraded Event = "graded"
	// EventSubmitFailed tells the client a timer-forced submit did not land;
	// the attempt is not lost and a manual retry is possible.
	EventSubmitFailed Event = "submit_failed"
	EventPong         Event = "pong"
)

// StatePayload is pushed every second and after every accepted action.
type StatePayload struct {
	Event Event       `json:"event"`
	State interface{} `json:"state"`
}

type GradedPayload struct {
	Event  Event       `json:"event"`
	Result interface{} `json:"result"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
