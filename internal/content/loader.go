// Package content loads the knowledge base and quizzes from a directory of
// YAML and Markdown files.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-insight/internal/recommender"
)

const quizSuffix = ".quiz.yaml"

// Loader loads and caches content from the filesystem. Documents keep the
// order they were found in so ranking ties are stable across restarts.
type Loader struct {
	rootDir   string
	documents []Document
	docIndex  map[string]int
	quizzes   []Quiz
	quizIndex map[string]int
	mu        sync.RWMutex
}

// NewLoader creates a content loader and loads everything under rootDir.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir:   rootDir,
		docIndex:  make(map[string]int),
		quizIndex: make(map[string]int),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	slog.Info("content loaded", "documents", len(l.documents), "quizzes", len(l.quizzes))
	return l, nil
}

// Documents returns the knowledge documents for a subject, or all documents
// when subject is empty.
func (l *Loader) Documents(subject string) []recommender.KnowledgeDocument {
	l.mu.RLock()
	defer l.mu.RUnlock()

	docs := make([]recommender.KnowledgeDocument, 0, len(l.documents))
	for _, d := range l.documents {
		if subject == "" || d.Subject == subject {
			docs = append(docs, d.Knowledge())
		}
	}
	return docs
}

// Document returns a document by ID.
func (l *Loader) Document(id string) (Document, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.docIndex[id]
	if !ok {
		return Document{}, false
	}
	return l.documents[i], true
}

// Quiz returns a quiz by ID.
func (l *Loader) Quiz(id string) (Quiz, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.quizIndex[id]
	if !ok {
		return Quiz{}, false
	}
	return l.quizzes[i], true
}

// Quizzes returns the quizzes for a subject, or all quizzes when subject is empty.
func (l *Loader) Quizzes(subject string) []Quiz {
	l.mu.RLock()
	defer l.mu.RUnlock()

	quizzes := make([]Quiz, 0, len(l.quizzes))
	for _, q := range l.quizzes {
		if subject == "" || q.Subject == subject {
			quizzes = append(quizzes, q)
		}
	}
	return quizzes
}

// Subjects returns every subject that has documents or quizzes, in first-seen order.
func (l *Loader) Subjects() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]bool)
	var subjects []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			subjects = append(subjects, s)
		}
	}
	for _, d := range l.documents {
		add(d.Subject)
	}
	for _, q := range l.quizzes {
		add(q.Subject)
	}
	return subjects
}

func (l *Loader) loadAll() error {
	if _, err := os.Stat(l.rootDir); err != nil {
		return err
	}

	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(path, quizSuffix):
			return l.loadQuiz(path)
		case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
			return l.loadDocument(path)
		}
		return nil
	})
}

func (l *Loader) loadDocument(path string) error {
	raw, err := readYAML(path)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if _, ok := raw["topic"]; !ok {
		return nil // Not a knowledge document
	}

	if err := validate(documentValidator, raw); err != nil {
		slog.Warn("skipping invalid document", "path", path, "error", err)
		return nil
	}

	var doc Document
	if err := decodeYAML(path, &doc); err != nil {
		return err
	}

	if doc.Content == "" {
		notes, err := os.ReadFile(strings.TrimSuffix(path, filepath.Ext(path)) + ".md")
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		doc.Content = string(notes)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.docIndex[doc.ID]; dup {
		slog.Warn("skipping duplicate document", "path", path, "id", doc.ID)
		return nil
	}
	l.docIndex[doc.ID] = len(l.documents)
	l.documents = append(l.documents, doc)
	return nil
}

func (l *Loader) loadQuiz(path string) error {
	raw, err := readYAML(path)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	if err := validate(quizValidator, raw); err != nil {
		slog.Warn("skipping invalid quiz", "path", path, "error", err)
		return nil
	}

	var quiz Quiz
	if err := decodeYAML(path, &quiz); err != nil {
		return err
	}
	for _, q := range quiz.Questions {
		if q.CorrectAnswer >= len(q.Options) {
			slog.Warn("skipping invalid quiz", "path", path,
				"error", fmt.Sprintf("question %s: correct_answer %d out of range", q.ID, q.CorrectAnswer))
			return nil
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.quizIndex[quiz.ID]; dup {
		slog.Warn("skipping duplicate quiz", "path", path, "id", quiz.ID)
		return nil
	}
	l.quizIndex[quiz.ID] = len(l.quizzes)
	l.quizzes = append(l.quizzes, quiz)
	return nil
}

// readYAML decodes a file into a generic map for schema validation. A file
// that is not a YAML mapping yields nil.
func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		slog.Warn("skipping invalid YAML", "path", path, "error", err)
		return nil, nil
	}
	return raw, nil
}

func decodeYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
