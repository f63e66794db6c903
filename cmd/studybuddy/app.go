package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dev-Amann/AI-StudyBuddy/internal/api"
	"github.com/dev-Amann/AI-StudyBuddy/internal/chat"
	"github.com/dev-Amann/AI-StudyBuddy/internal/config"
	"github.com/dev-Amann/AI-StudyBuddy/internal/history"
	"github.com/dev-Amann/AI-StudyBuddy/internal/logger"
	"github.com/dev-Amann/AI-StudyBuddy/internal/quiz"
	"github.com/dev-Amann/AI-StudyBuddy/internal/study"
	"github.com/dev-Amann/AI-StudyBuddy/internal/timer"
)

type app struct {
	cfg     *config.Config
	gateway *api.Client
	journal *history.Journal
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "chat":
		return a.runChat(ctx)
	case "explain":
		return a.runExplain(ctx, args)
	case "summarize":
		return a.runSummarize(ctx, args)
	case "quiz":
		return a.runQuiz(ctx, args)
	case "flashcards":
		return a.runFlashcards(ctx, args)
	case "pomodoro":
		return a.runPomodoro()
	case "activity":
		return a.runActivity()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// runChat is the tutor REPL. The loop is synchronous, which is exactly the
// one-send-in-flight discipline the manager expects from its caller.
func (a *app) runChat(ctx context.Context) error {
	manager := chat.NewManager(chat.NewClient(a.gateway))
	if err := manager.RefreshSessions(ctx); err != nil {
		logger.L.Warn("initial session list fetch failed", "error", err)
	}

	fmt.Println("AI Tutor chat. Type a message, or /new, /sessions, /open <n>, /delete <n>, /quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return nil
		case line == "/new":
			manager.NewChat()
			fmt.Println("Started a new draft conversation.")
		case line == "/sessions":
			if err := manager.RefreshSessions(ctx); err != nil {
				fmt.Printf("Could not refresh sessions: %v\n", err)
			}
			printSessions(manager.Sessions(), manager.CurrentSessionID())
		case strings.HasPrefix(line, "/open "):
			session, err := sessionAt(manager.Sessions(), strings.TrimPrefix(line, "/open "))
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := manager.SelectSession(ctx, session.ID); err != nil {
				fmt.Printf("Could not load %q: %v\n", session.Title, err)
				continue
			}
			printTranscript(manager.Transcript())
		case strings.HasPrefix(line, "/delete "):
			session, err := sessionAt(manager.Sessions(), strings.TrimPrefix(line, "/delete "))
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := manager.DeleteSession(ctx, session.ID); err != nil {
				fmt.Printf("Delete of %q failed on the backend (removed locally): %v\n", session.Title, err)
			} else {
				fmt.Printf("Deleted %q.\n", session.Title)
			}
		default:
			reply, err := manager.Send(ctx, line)
			if err != nil {
				fmt.Printf("  [not answered: %v]\n", err)
				continue
			}
			fmt.Printf("tutor: %s\n", reply.Content)
		}
	}
}

func (a *app) runExplain(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: studybuddy explain <topic>")
	}
	topic := strings.Join(args, " ")
	svc := study.NewService(a.gateway)
	out, err := svc.Explain(ctx, topic)
	if err != nil {
		return err
	}
	fmt.Printf("# %s\n\n%s\n", out.Topic, out.Explanation)
	a.journal.Record(history.Entry{Kind: history.KindExplain, Detail: topic, CreatedAt: time.Now().UTC()})
	return nil
}

func (a *app) runSummarize(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: studybuddy summarize <file.pdf>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	svc := study.NewService(a.gateway)
	out, err := svc.Summarize(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Printf("Summary of %s:\n\n%s\n", out.OriginalFilename, out.Summary)
	a.journal.Record(history.Entry{Kind: history.KindSummary, Detail: out.OriginalFilename, CreatedAt: time.Now().UTC()})
	return nil
}

func (a *app) runQuiz(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: studybuddy quiz <topic>")
	}
	topic := strings.Join(args, " ")
	svc := study.NewService(a.gateway)
	generated, err := svc.GenerateQuiz(ctx, topic, "")
	if err != nil {
		return err
	}
	if len(generated.Questions) == 0 {
		return errors.New("backend returned an empty quiz")
	}

	runner := quiz.NewRunner(generated)
	fmt.Printf("%s (%d questions)\n", runner.Title(), runner.Total())
	scanner := bufio.NewScanner(os.Stdin)
	for !runner.Finished() {
		q, n := runner.Current()
		fmt.Printf("\nQ%d/%d: %s\n", n, runner.Total(), q.Question)
		for i, opt := range q.Options {
			fmt.Printf("  %d) %s\n", i+1, opt)
		}
		fmt.Print("answer: ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Println("Enter the option number.")
			continue
		}
		correct, err := runner.Answer(choice - 1)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if correct {
			fmt.Println("Correct!")
		} else {
			fmt.Printf("Wrong; the answer was %d) %s\n", q.CorrectAnswer+1, q.Options[q.CorrectAnswer])
		}
		if err := runner.Next(); err != nil {
			return err
		}
	}

	fmt.Printf("\nFinal score: %d/%d\n", runner.Score(), runner.Total())
	a.journal.Record(history.Entry{
		Kind:      history.KindQuiz,
		Detail:    fmt.Sprintf("%s: %d/%d", topic, runner.Score(), runner.Total()),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (a *app) runFlashcards(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: studybuddy flashcards <topic>")
	}
	topic := strings.Join(args, " ")
	svc := study.NewService(a.gateway)
	cards, err := svc.GenerateFlashcards(ctx, topic)
	if err != nil {
		return err
	}
	for i, c := range cards {
		fmt.Printf("%d. %s\n   %s\n", i+1, c.Front, c.Back)
	}
	a.journal.Record(history.Entry{
		Kind:      history.KindFlashcards,
		Detail:    fmt.Sprintf("%s (%d cards)", topic, len(cards)),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (a *app) runPomodoro() error {
	cfg := timer.Config{
		Work:                 time.Duration(a.cfg.Pomodoro.WorkMinutes) * time.Minute,
		ShortBreak:           time.Duration(a.cfg.Pomodoro.ShortBreakMinutes) * time.Minute,
		LongBreak:            time.Duration(a.cfg.Pomodoro.LongBreakMinutes) * time.Minute,
		SessionsPerLongBreak: a.cfg.Pomodoro.SessionsPerLongBreak,
	}
	t := timer.New(cfg)

	fmt.Println("Pomodoro timer. Commands: start, pause, reset, skip, status, quit.")
	printTimer(t)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("pomodoro> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		now := time.Now()
		if finished, _ := t.Advance(now); finished {
			fmt.Printf("Phase complete! Up next: %s.\n", t.Mode())
			a.journal.Record(history.Entry{Kind: history.KindPomodoro,
				Detail: fmt.Sprintf("completed #%d", t.Completed()), CreatedAt: now.UTC()})
		}

		var err error
		switch strings.TrimSpace(scanner.Text()) {
		case "quit":
			return nil
		case "start":
			err = t.Start(time.Now())
		case "pause":
			err = t.Pause(time.Now())
		case "reset":
			err = t.Reset()
		case "skip":
			err = t.Skip()
		case "status", "":
		default:
			fmt.Println("Commands: start, pause, reset, skip, status, quit.")
			continue
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		printTimer(t)
	}
}

func (a *app) runActivity() error {
	entries := a.journal.Recent(20)
	if len(entries) == 0 {
		fmt.Println("No local activity yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-10s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Kind, e.Detail)
	}
	return nil
}

func printTimer(t *timer.Timer) {
	state := "paused"
	if t.Running() {
		state = "running"
	}
	left := t.Remaining(time.Now())
	fmt.Printf("[%s, %s] %02d:%02d  (completed: %d)\n",
		t.Mode(), state, int(left.Minutes()), int(left.Seconds())%60, t.Completed())
}

func printSessions(sessions []chat.Session, currentID string) {
	if len(sessions) == 0 {
		fmt.Println("No history yet.")
		return
	}
	for i, s := range sessions {
		marker := " "
		if s.ID == currentID {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s (%s)\n", marker, i+1, s.Title, s.UpdatedAt.Local().Format("Jan 2 15:04"))
	}
}

func printTranscript(messages []chat.Message) {
	for _, m := range messages {
		who := "you"
		if m.Role == chat.RoleAssistant {
			who = "tutor"
		}
		suffix := ""
		if m.Status == chat.StatusFailed {
			suffix = "  [failed]"
		}
		fmt.Printf("%s: %s%s\n", who, m.Content, suffix)
	}
}

func sessionAt(sessions []chat.Session, arg string) (chat.Session, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(sessions) {
		return chat.Session{}, fmt.Errorf("no such session; use /sessions to list (1-%d)", len(sessions))
	}
	return sessions[n-1], nil
}
