// Package quiz drives a generated question set one question at a time,
// scoring answers against the correct-answer index.
package quiz

import (
	"errors"
	"fmt"

	"github.com/dev-Amann/AI-StudyBuddy/internal/study"
)

var (
	// ErrAnswered is returned when the current question was already answered.
	ErrAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing before answering.
	ErrNotAnswered = errors.New("question not answered yet")
	// ErrFinished is returned for any action after the last question.
	ErrFinished = errors.New("quiz already finished")
)

// Runner holds the progress through one quiz. One question is live at a
// time; an answer locks it, Next advances, and after the last question the
// runner reports the total score.
type Runner struct {
	quiz     study.Quiz
	index    int
	scores   []int
	answered bool
	finished bool
}

// NewRunner starts a runner at the first question.
func NewRunner(q study.Quiz) *Runner {
	return &Runner{
		quiz:   q,
		scores: make([]int, len(q.Questions)),
	}
}

// Current returns the live question and its 1-based position.
func (r *Runner) Current() (study.Question, int) {
	return r.quiz.Questions[r.index], r.index + 1
}

// Total returns the number of questions.
func (r *Runner) Total() int { return len(r.quiz.Questions) }

// Title returns the quiz title.
func (r *Runner) Title() string { return r.quiz.Title }

// Finished reports whether all questions have been answered and passed.
func (r *Runner) Finished() bool { return r.finished }

// Answer scores the given option for the live question and locks it.
// It reports whether the answer was correct.
func (r *Runner) Answer(option int) (bool, error) {
	if r.finished {
		return false, ErrFinished
	}
	if r.answered {
		return false, ErrAnswered
	}
	q := r.quiz.Questions[r.index]
	if option < 0 || option >= len(q.Options) {
		return false, fmt.Errorf("option %d out of range (have %d options)", option, len(q.Options))
	}
	r.answered = true
	correct := option == q.CorrectAnswer
	if correct {
		r.scores[r.index] = 1
	}
	return correct, nil
}

// Next advances past an answered question; after the last one the runner is
// finished.
func (r *Runner) Next() error {
	if r.finished {
		return ErrFinished
	}
	if !r.answered {
		return ErrNotAnswered
	}
	if r.index == len(r.quiz.Questions)-1 {
		r.finished = true
		return nil
	}
	r.index++
	r.answered = false
	return nil
}

// Score returns the running total of correct answers.
func (r *Runner) Score() int {
	total := 0
	for _, s := range r.scores {
		total += s
	}
	return total
}
