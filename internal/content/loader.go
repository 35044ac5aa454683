package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/prepyds/ydsprep-backend/internal/model"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrExamNotFound  = errors.New("exam not found")
	ErrTopicNotFound = errors.New("topic not found")
)

const (
	catalogFile = "exams.json"
	topicsFile  = "topics.json"
)

// Loader reads the static exam and lesson content from a directory and serves
// it as an immutable in-memory catalog. Reload replaces the whole catalog
// atomically; individual entries are never mutated after load.
type Loader struct {
	dir string
	log zerolog.Logger

	mu        sync.RWMutex
	exams     map[string]*model.ExamDefinition
	questions map[string][]model.Question
	topics    map[string]*model.Topic
}

// NewLoader creates a Loader rooted at dir. Call Load before serving.
func NewLoader(dir string, log zerolog.Logger) *Loader {
	return &Loader{
		dir: dir,
		log: log.With().Str("component", "content_loader").Logger(),
	}
}

// catalogEntry is the on-disk catalog shape. The file pointer is parsed here
// and carried on the definition internally, never serialized back out.
type catalogEntry struct {
	model.ExamDefinition
	ContentFile string `json:"content_file"`
}

// topicEntry is the on-disk topics catalog shape.
type topicEntry struct {
	model.Topic
	LessonFile string `json:"lesson_file"`
}

// Load reads the exam catalog, every referenced question file and the topics
// catalog. A malformed or unreadable resource fails the whole load — serving
// a half-loaded catalog would let students open broken sessions.
func (l *Loader) Load() error {
	raw, err := os.ReadFile(filepath.Join(l.dir, catalogFile))
	if err != nil {
		return fmt.Errorf("read exam catalog: %w", err)
	}

	// Catalog is a JSON map keyed by exam id.
	var catalog map[string]catalogEntry
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return fmt.Errorf("parse exam catalog: %w", err)
	}

	exams := make(map[string]*model.ExamDefinition, len(catalog))
	questions := make(map[string][]model.Question, len(catalog))

	for id, entry := range catalog {
		def := entry.ExamDefinition
		def.ContentFile = entry.ContentFile
		if def.ID == "" {
			def.ID = id
		}
		if def.ID != id {
			return fmt.Errorf("exam %q: catalog key does not match id %q", id, def.ID)
		}
		if def.Title == "" || def.DurationMinutes <= 0 || def.ContentFile == "" {
			return fmt.Errorf("exam %q: title, duration_minutes and content_file are required", id)
		}

		qs, err := l.loadQuestions(def.ContentFile)
		if err != nil {
			return fmt.Errorf("exam %q: %w", id, err)
		}

		def.QuestionCount = len(qs)
		exams[id] = &def
		questions[id] = qs
	}

	topics, err := l.loadTopics()
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.exams = exams
	l.questions = questions
	l.topics = topics
	l.mu.Unlock()

	l.log.Info().
		Int("exams", len(exams)).
		Int("topics", len(topics)).
		Msg("Content loaded")

	return nil
}

func (l *Loader) loadQuestions(contentFile string) ([]model.Question, error) {
	raw, err := os.ReadFile(filepath.Join(l.dir, contentFile))
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}

	var content model.ExamContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("parse content file: %w", err)
	}
	if len(content.Questions) == 0 {
		return nil, errors.New("content file has no questions")
	}

	seen := make(map[string]struct{}, len(content.Questions))
	for i := range content.Questions {
		q := &content.Questions[i]
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: missing id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("question %q: duplicate id", q.ID)
		}
		seen[q.ID] = struct{}{}

		if len(q.Options) == 0 || len(q.Options) > len(model.ChoiceLabels) {
			return nil, fmt.Errorf("question %q: expected 1-%d options, got %d",
				q.ID, len(model.ChoiceLabels), len(q.Options))
		}
		if !validLabel(q.CorrectAnswer, len(q.Options)) {
			return nil, fmt.Errorf("question %q: correctAnswer %q is not a valid label",
				q.ID, q.CorrectAnswer)
		}

		// Ordinal position is the position in the file.
		q.OrderNum = i
	}

	return content.Questions, nil
}

// validLabel reports whether label names one of the first optionCount choices.
func validLabel(label string, optionCount int) bool {
	if len(label) != 1 {
		return false
	}
	idx := strings.Index(model.ChoiceLabels, label)
	return idx >= 0 && idx < optionCount
}

func (l *Loader) loadTopics() (map[string]*model.Topic, error) {
	raw, err := os.ReadFile(filepath.Join(l.dir, topicsFile))
	if err != nil {
		// Topics are optional — an exam-only content pack is valid.
		if errors.Is(err, os.ErrNotExist) {
			return map[string]*model.Topic{}, nil
		}
		return nil, fmt.Errorf("read topics catalog: %w", err)
	}

	var list []topicEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse topics catalog: %w", err)
	}

	topics := make(map[string]*model.Topic, len(list))
	for i := range list {
		t := list[i].Topic
		t.LessonFile = list[i].LessonFile
		if t.ID == "" || t.Title == "" || t.LessonFile == "" {
			return nil, fmt.Errorf("topic %d: id, title and lesson_file are required", i)
		}
		topics[t.ID] = &t
	}
	return topics, nil
}

// ListExams returns all exam definitions ordered by id.
func (l *Loader) ListExams() []model.ExamDefinition {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.ExamDefinition, 0, len(l.exams))
	for _, def := range l.exams {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetExam returns the definition for one exam, or ErrExamNotFound.
func (l *Loader) GetExam(id string) (*model.ExamDefinition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	def, ok := l.exams[id]
	if !ok {
		return nil, ErrExamNotFound
	}
	cp := *def
	return &cp, nil
}

// Questions returns the ordered question list for one exam, or ErrExamNotFound.
// The returned slice is a copy; callers may not mutate loaded content.
func (l *Loader) Questions(id string) ([]model.Question, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	qs, ok := l.questions[id]
	if !ok {
		return nil, ErrExamNotFound
	}
	out := make([]model.Question, len(qs))
	copy(out, qs)
	return out, nil
}

// ListTopics returns the lesson catalog ordered by category then order_num.
func (l *Loader) ListTopics() []model.Topic {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Topic, 0, len(l.topics))
	for _, t := range l.topics {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].OrderNum < out[j].OrderNum
	})
	return out
}

// GetLesson returns a topic with its body loaded, or ErrTopicNotFound.
func (l *Loader) GetLesson(id string) (*model.Lesson, error) {
	l.mu.RLock()
	t, ok := l.topics[id]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrTopicNotFound
	}

	body, err := os.ReadFile(filepath.Join(l.dir, t.LessonFile))
	if err != nil {
		return nil, fmt.Errorf("read lesson body: %w", err)
	}

	return &model.Lesson{Topic: *t, Body: string(body)}, nil
}
