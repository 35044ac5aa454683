package model

// ChoiceLabels are the labels assigned to options by position. An exam
// question carries at most five choices.
const ChoiceLabels = "ABCDE"

// Question is a single exam question. Immutable; loaded as part of exam content.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	ImageURL      string   `json:"image_url,omitempty"`
	OrderNum      int      `json:"order_num"`
}

// QuestionForStudent is a question stripped of the correct answer and
// explanation, safe to send while a session is in progress.
type QuestionForStudent struct {
	ID       string   `json:"id"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	ImageURL string   `json:"image_url,omitempty"`
	OrderNum int      `json:"order_num"`
}

// ForStudent strips grading fields from a question.
func (q Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:       q.ID,
		Text:     q.Text,
		Options:  q.Options,
		ImageURL: q.ImageURL,
		OrderNum: q.OrderNum,
	}
}

// LabelFor returns the choice label for an option index ("A".."E"),
// or "" when the index is out of range.
func LabelFor(i int) string {
	if i < 0 || i >= len(ChoiceLabels) {
		return ""
	}
	return string(ChoiceLabels[i])
}
