package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	"github.com/samgozman/fin-pulse/composer"
	"github.com/samgozman/fin-pulse/dispatcher"
	"github.com/samgozman/fin-pulse/editor"
	"github.com/samgozman/fin-pulse/jobs"
	"github.com/samgozman/fin-pulse/journalist"
	"github.com/samgozman/fin-pulse/publisher"
	"github.com/samgozman/fin-pulse/scavenger"
	"github.com/samgozman/fin-pulse/scavenger/quotes"
	"google.golang.org/api/option"
)

type App struct {
	config *Config
	logger *slog.Logger
}

// newEditor wires the quote and headline fetchers into the briefing pipeline.
func (a *App) newEditor() *editor.Editor {
	timeout := a.config.FetchTimeout()

	scav := scavenger.New(quotes.FetchPolicy{Timeout: timeout})
	scav.Quotes.WithLogger(a.logger)

	client := &http.Client{Timeout: timeout}
	providers := lo.Map(a.config.feeds, func(f Feed, _ int) journalist.NewsProvider {
		p := journalist.NewRssProvider(f.Name, f.URL)
		p.Client = client
		return p
	})

	geoNews := journalist.NewJournalist("GeoNews", providers).
		FilterByKeys(a.config.keywords).
		ScanFirst(a.config.perFeedLimit).
		Limit(a.config.totalLimit)

	return editor.NewEditor(scav, geoNews, composer.NewComposer(), timeout).WithLogger(a.logger)
}

// newForecaster returns the outlook generator for the configured token, or nil when none is set.
// The returned func releases the client.
func (a *App) newForecaster(ctx context.Context) (composer.Forecaster, func(), error) {
	switch {
	case a.config.env.OpenAiToken != "":
		return composer.NewOpenAIForecaster(a.config.env.OpenAiToken), func() {}, nil
	case a.config.env.GoogleGeminiToken != "":
		client, err := genai.NewClient(ctx, option.WithAPIKey(a.config.env.GoogleGeminiToken))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return composer.NewGeminiForecaster(client), func() { _ = client.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

// start runs the scheduler and the command loop until ctx is done.
func (a *App) start(ctx context.Context) error {
	// Sentry hub for fatal errors
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
	})
	defer hub.Flush(2 * time.Second)

	fatal := func(msg string, err error) error {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Category: "startup",
			Message:  msg,
			Level:    sentry.LevelFatal,
		}, nil)
		hub.CaptureException(err)
		return fmt.Errorf("%s: %w", msg, err)
	}

	ed := a.newEditor()

	forecaster, closeForecaster, err := a.newForecaster(ctx)
	if err != nil {
		return fatal("Error creating forecaster", err)
	}
	defer closeForecaster()
	if forecaster != nil {
		ed.WithForecaster(forecaster).OutlookTimeout(a.config.OutlookTimeout())
	}

	pub, err := publisher.NewTelegramPublisher(a.config.env.TelegramChatID, a.config.env.TelegramBotToken)
	if err != nil {
		return fatal("Error connecting to Telegram", err)
	}

	loc := a.config.schedule.Location
	runTimeout := a.config.FetchTimeout() + a.config.OutlookTimeout() + 15*time.Second
	dailyJob := jobs.NewBriefingJob("Daily", ed, pub).In(loc).Timeout(runTimeout).WithLogger(a.logger)
	emergencyJob := jobs.NewBriefingJob("Emergency", ed, pub).OnlyWithAlerts().In(loc).Timeout(runTimeout).WithLogger(a.logger)
	if a.config.env.Publish {
		dailyJob.Publish()
		emergencyJob.Publish()
	}

	s, err := jobs.NewScheduler(a.config.schedule, a.logger)
	if err != nil {
		return fatal("Error creating scheduler", err)
	}
	if err := s.Daily(dailyJob.Name, dailyJob.Run()); err != nil {
		return fatal("Error scheduling job for Daily briefing", err)
	}
	if err := s.Emergency(emergencyJob.Name, emergencyJob.Run()); err != nil {
		return fatal("Error scheduling job for Emergency check", err)
	}

	commands, err := pub.Commands(ctx)
	if err != nil {
		return fatal("Error receiving commands", err)
	}
	d := dispatcher.NewDispatcher(pub, ed, loc).WithLogger(a.logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Listen(ctx, commands)
	}()

	s.Start()
	a.logger.Info("Started fin-pulse successfully", "next_runs", s.NextRuns())

	<-ctx.Done()
	a.logger.Info("Shutting down fin-pulse")

	if err := s.Shutdown(); err != nil {
		a.logger.Error("[scheduler] shutdown failed", "error", err)
	}
	wg.Wait()

	return nil
}
