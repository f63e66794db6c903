// Package study wraps the single-shot study tool endpoints: topic
// explanation, PDF summarization, quiz generation, and flashcard generation.
// Unlike chat these carry no session state; each call is one request and one
// response through the gateway.
package study

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dev-Amann/AI-StudyBuddy/internal/api"
)

// ErrNotPDF is returned for summarize uploads whose filename is not a .pdf.
// The backend enforces the same rule; checking here saves the upload.
var ErrNotPDF = errors.New("only PDF files are supported")

// DefaultDifficulty is used when quiz generation is asked for without one.
const DefaultDifficulty = "medium"

// Explanation is the explain tool's result.
type Explanation struct {
	Topic       string `json:"topic"`
	Explanation string `json:"explanation"`
}

// Summary is the summarize tool's result.
type Summary struct {
	Summary          string `json:"summary"`
	OriginalFilename string `json:"original_filename"`
}

// Question is one quiz question with its options and the index of the
// correct one.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// Quiz is a generated question set.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Flashcard is one front/back card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Service issues study tool requests through the gateway.
type Service struct {
	api *api.Client
}

// NewService creates a study tool service.
func NewService(gateway *api.Client) *Service {
	return &Service{api: gateway}
}

// Explain asks for an explanation of a topic.
func (s *Service) Explain(ctx context.Context, topic string) (Explanation, error) {
	var out Explanation
	err := s.api.Do(ctx, http.MethodPost, "/explain/", map[string]string{"topic": topic}, &out)
	return out, err
}

// Summarize uploads a PDF and returns its summary.
func (s *Service) Summarize(ctx context.Context, filename string, r io.Reader) (Summary, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return Summary{}, ErrNotPDF
	}
	var out Summary
	err := s.api.Upload(ctx, "/summarize/", "file", filename, r, &out)
	return out, err
}

// GenerateQuiz asks for a question set on a topic. An empty difficulty means
// DefaultDifficulty.
func (s *Service) GenerateQuiz(ctx context.Context, topic, difficulty string) (Quiz, error) {
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	var out Quiz
	err := s.api.Do(ctx, http.MethodPost, "/quiz/",
		map[string]string{"topic": topic, "difficulty": difficulty}, &out)
	return out, err
}

// GenerateFlashcards asks for a flashcard deck on a topic.
func (s *Service) GenerateFlashcards(ctx context.Context, topic string) ([]Flashcard, error) {
	var out struct {
		Flashcards []Flashcard `json:"flashcards"`
	}
	if err := s.api.Do(ctx, http.MethodPost, "/flashcards/", map[string]string{"topic": topic}, &out); err != nil {
		return nil, err
	}
	return out.Flashcards, nil
}
