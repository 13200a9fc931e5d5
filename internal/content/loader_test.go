package content_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/p-n-ai/pai-insight/internal/analytics"
	"github.com/p-n-ai/pai-insight/internal/content"
)

func TestLoader_LoadDocuments(t *testing.T) {
	dir := setupTestContent(t)

	loader, err := content.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	docs := loader.Documents("")
	if len(docs) != 3 {
		t.Fatalf("Documents(\"\") = %d documents, want 3", len(docs))
	}

	// Walk order is lexical by path.
	wantIDs := []string{"algo-sort", "ds-queue", "ds-stack"}
	for i, id := range wantIDs {
		if docs[i].ID != id {
			t.Errorf("Documents()[%d].ID = %q, want %q", i, docs[i].ID, id)
		}
	}
}

func TestLoader_DocumentsBySubject(t *testing.T) {
	dir := setupTestContent(t)

	loader, err := content.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	docs := loader.Documents("Data Structures")
	if len(docs) != 2 {
		t.Fatalf("Documents(Data Structures) = %d documents, want 2", len(docs))
	}
	for _, d := range docs {
		if d.Subject != "Data Structures" {
			t.Errorf("Documents() returned subject %q", d.Subject)
		}
	}

	if got := loader.Documents("Chemistry"); len(got) != 0 {
		t.Errorf("Documents(Chemistry) = %d documents, want 0", len(got))
	}
}

func TestLoader_ContentFromMarkdown(t *testing.T) {
	dir := setupTestContent(t)

	loader, err := content.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	doc, found := loader.Document("ds-stack")
	if !found {
		t.Fatal("Document(ds-stack) not found")
	}
	if !strings.Contains(doc.Content, "**LIFO**") {
		t.Errorf("Content = %q, want markdown notes", doc.Content)
	}
	if len(doc.Keywords) != 2 {
		t.Errorf("Keywords = %v, want 2 keywords", doc.Keywords)
	}
}

func TestLoader_InlineContentWins(t *testing.T) {
	dir := setupTestContent(t)

	loader, err := content.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	doc, _ := loader.Document("ds-queue")
	if doc.Content != "A queue is FIFO.\n" {
		t.Errorf("Content = %q, want inline content", doc.Content)
	}
}

func TestLoader_Quiz(t *testing.T) {
	dir := setupTestContent(t)

	loader, err := content.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	quiz, found := loader.Quiz("quiz-ds-1")
	if !found {
		t.Fatal("Quiz(quiz-ds-1) not found")
	}
	if quiz.Difficulty != analytics.DifficultyMedium {
		t.Errorf("Difficulty = %q, want MEDIUM", quiz.Difficulty)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("len(Questions) = %d, want 2", len(quiz.Questions))
	}
	if quiz.Questions[1].CorrectAnswer != 1 {
		t.Errorf("Questions[1].CorrectAnswer = %d, want 1", quiz.Questions[1].CorrectAnswer)
	}

	if got := loader.Quizzes("Data Structures"); len(got) != 1 {
		t.Errorf("Quizzes(Data Structures) = %d, want 1", len(got))
	}
}

func TestLoader_SkipsInvalidFiles(t *testing.T) {
	dir := setupTestContent(t)
	ds := filepath.Join(dir, "data-structures")

	writeFile(t, filepath.Join(ds, "bad-difficulty.yaml"), `
id: ds-bad
topic: Heaps
subject: Data Structures
difficulty: IMPOSSIBLE
`)
	writeFile(t, filepath.Join(ds, "empty-keyword.yaml"), `
id: ds-empty
topic: Tries
subject: Data Structures
difficulty: HARD
keywords: [""]
`)
	writeFile(t, filepath.Join(ds, "out-of-range.quiz.yaml"), `
id: quiz-bad
title: Broken
subject: Data Structures
difficulty: EASY
questions:
  - id: q1
    text: "Pick one"
    topic: Heaps
    options: ["a", "b"]
    correct_answer: 2
`)
	writeFile(t, filepath.Join(ds, "settings.yaml"), "theme: dark\n")
	writeFile(t, filepath.Join(ds, "broken.yaml"), "id: [unclosed\n")

	loader, err := content.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	if got := loader.Documents(""); len(got) != 3 {
		t.Errorf("Documents() = %d, want 3 (invalid documents skipped)", len(got))
	}
	if _, found := loader.Quiz("quiz-bad"); found {
		t.Error("Quiz(quiz-bad) should be skipped")
	}
}

func TestLoader_Subjects(t *testing.T) {
	dir := setupTestContent(t)

	loader, err := content.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}

	got := loader.Subjects()
	if len(got) != 2 {
		t.Errorf("Subjects() = %v, want 2 subjects", got)
	}
}

func TestLoader_EmptyDir(t *testing.T) {
	loader, err := content.NewLoader(t.TempDir())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if got := loader.Documents(""); len(got) != 0 {
		t.Errorf("Documents() = %d, want 0 for empty dir", len(got))
	}
}

func TestLoader_MissingDir(t *testing.T) {
	_, err := content.NewLoader(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("NewLoader() should fail for a missing directory")
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupTestContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "algorithms", "sorting.yaml"), `
id: algo-sort
topic: Sorting
subject: Algorithms
difficulty: EASY
keywords: [quicksort, mergesort]
content: "Sorting puts items in order."
`)

	ds := filepath.Join(dir, "data-structures")
	writeFile(t, filepath.Join(ds, "queue.yaml"), `
id: ds-queue
topic: Queue
subject: Data Structures
difficulty: EASY
keywords: [FIFO]
content: |
  A queue is FIFO.
`)
	writeFile(t, filepath.Join(ds, "stack.yaml"), `
id: ds-stack
topic: Stack
subject: Data Structures
difficulty: MEDIUM
keywords: [LIFO, push]
`)
	writeFile(t, filepath.Join(ds, "stack.md"), `# Stack

A stack is **LIFO**.

1. Push adds to the top
2. Pop removes from the top
`)
	writeFile(t, filepath.Join(ds, "basics.quiz.yaml"), `
id: quiz-ds-1
title: Data Structures Basics
subject: Data Structures
difficulty: MEDIUM
questions:
  - id: q1
    text: "Which structure is LIFO?"
    topic: Stack
    options: ["Queue", "Stack", "Heap"]
    correct_answer: 1
  - id: q2
    text: "Which structure is FIFO?"
    topic: Queue
    options: ["Stack", "Queue"]
    correct_answer: 1
`)

	return dir
}
