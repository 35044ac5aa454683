package model

// ExamDefinition describes one mock exam as listed in the content catalog.
// Immutable once loaded by the content loader.
type ExamDefinition struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	QuestionCount   int    `json:"question_count"`
	// ContentFile points at the per-exam question resource, relative to the
	// content directory. Never exposed to clients.
	ContentFile string `json:"-"`
}

// ExamContent is the on-disk shape of a per-exam question file.
type ExamContent struct {
	Questions []Question `json:"questions"`
}

// ExamSummary is an exam catalog entry overlaid with the student's own
// status: whether a partial attempt or a completed result exists.
type ExamSummary struct {
	ExamDefinition
	InProgress bool `json:"in_progress"`
	Completed  bool `json:"completed"`
	BestScore  *int `json:"best_score,omitempty"`
}
