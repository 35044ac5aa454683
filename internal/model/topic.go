package model

// Topic is a lesson entry in the topics catalog (grammar, vocabulary,
// reading strategies). The lesson body is a static resource served as-is;
// rendering is the client's concern.
type Topic struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	OrderNum int    `json:"order_num"`
	// LessonFile is the body resource relative to the content directory.
	LessonFile string `json:"-"`
}

// Lesson is a topic with its body loaded.
type Lesson struct {
	Topic
	Body string `json:"body"`
}
