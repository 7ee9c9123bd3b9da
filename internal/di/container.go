package di

import (
	"context"
	"fmt"
	"time"

	"web-navigator/internal/adapter/httpapi"
	"web-navigator/internal/application/port/output"
	"web-navigator/internal/domain/profile"
	"web-navigator/internal/infrastructure/browser/rodadapter"
	"web-navigator/internal/infrastructure/llm/openrouter"
	"web-navigator/internal/infrastructure/logger"
	"web-navigator/internal/usecase/planner"
)

type Container struct {
	Browser  output.BrowserPort
	LLM      output.LLMPort
	Logger   output.LoggerPort
	Profiles *profile.Registry
	Planner  *planner.Planner
	Server   *httpapi.Server
}

type Config struct {
	BrowserHeadless  bool
	BrowserSlowMo    time.Duration
	LLMAPIKey        string
	LLMModel         string
	LLMBaseURL       string
	ProfilesFile     string
	LogLevel         string
	LogDevelopment   bool
	CaptureOnFailure bool
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rodadapter.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	browserCfg.SlowMotion = cfg.BrowserSlowMo
	browser, err := rodadapter.NewBrowser(ctx, browserCfg)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	// The LLM is optional: without a key the planner runs on heuristics.
	var llm output.LLMPort
	if cfg.LLMAPIKey != "" {
		llmCfg := openrouter.DefaultConfig(cfg.LLMAPIKey, cfg.LLMModel)
		if cfg.LLMBaseURL != "" {
			llmCfg.BaseURL = cfg.LLMBaseURL
		}
		llm = openrouter.New(llmCfg, log)
	}

	profiles := profile.NewRegistry()
	if cfg.ProfilesFile != "" {
		if err := profiles.LoadFile(cfg.ProfilesFile); err != nil {
			browser.Close()
			_ = log.Close()
			return nil, fmt.Errorf("failed to load profiles: %w", err)
		}
	}

	plan := planner.New(llm, profiles, log)

	server := httpapi.NewServer(plan, browser, profiles, log)
	server.CaptureOnFailure = cfg.CaptureOnFailure

	return &Container{
		Browser:  browser,
		LLM:      llm,
		Logger:   log,
		Profiles: profiles,
		Planner:  plan,
		Server:   server,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
