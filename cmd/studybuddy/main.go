package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dev-Amann/AI-StudyBuddy/internal/api"
	"github.com/dev-Amann/AI-StudyBuddy/internal/auth"
	"github.com/dev-Amann/AI-StudyBuddy/internal/config"
	"github.com/dev-Amann/AI-StudyBuddy/internal/history"
	"github.com/dev-Amann/AI-StudyBuddy/internal/logger"
	"github.com/dev-Amann/AI-StudyBuddy/internal/telemetry"
)

const usage = `Usage: studybuddy [flags] <command> [args]

Commands:
  chat                  interactive tutor chat
  explain <topic>       explain a topic
  summarize <file.pdf>  summarize a PDF
  quiz <topic>          generate and run a quiz
  flashcards <topic>    generate flashcards
  pomodoro              pomodoro study timer
  activity              show recent local activity
`

func main() {
	var baseURL string
	var token string
	var debug bool

	flag.StringVar(&baseURL, "api", "", "Backend API base URL (overrides config)")
	flag.StringVar(&token, "token", "", "Bearer token (overrides config)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if token != "" {
		cfg.Auth.Token = token
	} else if env := os.Getenv("STUDYBUDDY_TOKEN"); env != "" && cfg.Auth.Token == "" {
		cfg.Auth.Token = env
	}

	logger.SetOutput(cfg.Log.File)
	if debug {
		logger.SetLevel("debug")
	} else {
		logger.SetLevel(cfg.Log.Level)
	}

	ctx := context.Background()
	_, _, shutdown, err := telemetry.Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}
	defer shutdown()

	gateway := api.New(cfg.API.BaseURL, tokenProvider(cfg),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second))

	journal := history.Open(cfg.History.Path)
	defer journal.Close()

	app := &app{cfg: cfg, gateway: gateway, journal: journal}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	if err := app.run(ctx, command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// tokenProvider picks the credential strategy: a refreshing provider when an
// identity endpoint is configured, a static token when only that is set, and
// anonymous otherwise.
func tokenProvider(cfg *config.Config) api.TokenProvider {
	if cfg.Auth.TokenURL != "" {
		leeway := time.Duration(cfg.Auth.ExpiryLeewaySecond) * time.Second
		return auth.NewRefresher(cfg.Auth.TokenURL, cfg.Auth.RefreshToken, cfg.Auth.Token, leeway)
	}
	if cfg.Auth.Token != "" {
		return auth.Static(cfg.Auth.Token)
	}
	logger.L.Warn("no credential configured; requests go out anonymously")
	return auth.Anonymous()
}
