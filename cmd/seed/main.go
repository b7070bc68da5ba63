// Command seed clears the announcement and quiz collections and inserts demo data.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/campus/internal/announcements"
	"github.com/JaimeStill/campus/internal/config"
	"github.com/JaimeStill/campus/internal/infrastructure"
	"github.com/JaimeStill/campus/internal/quizzes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	infra, err := infrastructure.New(cfg, os.Stderr)
	if err != nil {
		log.Fatal("infrastructure init failed: ", err)
	}
	if err := infra.Docstore.Start(infra.Lifecycle); err != nil {
		log.Fatal("docstore start failed: ", err)
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		log.Fatal("docstore unavailable: ", err)
	}

	ctx, cancel := context.WithTimeout(infra.Lifecycle.Context(), time.Minute)
	err = run(ctx, infra)
	cancel()

	infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	if err != nil {
		infra.Logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	infra.Logger.Info("seed finished")
}

func run(ctx context.Context, infra *infrastructure.Infrastructure) error {
	wipe, wctx := errgroup.WithContext(ctx)
	for _, name := range []string{announcements.Collection, quizzes.Collection} {
		wipe.Go(func() error {
			if err := infra.Docstore.Collection(name).Clear(wctx); err != nil {
				return fmt.Errorf("clear %s: %w", name, err)
			}
			return nil
		})
	}
	if err := wipe.Wait(); err != nil {
		return err
	}

	announcementsSystem := announcements.New(
		announcements.NewRepository(infra.Docstore),
		infra.Storage,
		infra.Logger,
	)
	quizzesSystem := quizzes.New(quizzes.NewRepository(infra.Docstore), infra.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return seedAnnouncements(gctx, announcementsSystem) })
	g.Go(func() error { return seedQuizzes(gctx, quizzesSystem, time.Now()) })
	return g.Wait()
}

func seedAnnouncements(ctx context.Context, sys announcements.System) error {
	cmds := []announcements.CreateCommand{
		{
			Title:      "Welcome to the semester",
			Content:    "We wish you a great semester!",
			Category:   ptr("General"),
			AuthorName: "School management",
		},
		{
			Title:      "Field trip reminder",
			Content:    "Don't forget the field trip next week.",
			Category:   ptr("Events"),
			AuthorName: "Events Manager",
		},
	}

	for _, cmd := range cmds {
		if _, err := sys.Create(ctx, cmd); err != nil {
			return fmt.Errorf("seed announcement %q: %w", cmd.Title, err)
		}
	}
	return nil
}

func seedQuizzes(ctx context.Context, sys quizzes.System, now time.Time) error {
	day := 24 * time.Hour
	cmds := []quizzes.CreateCommand{
		{
			Title:       "Unit 2 Quiz",
			Course:      "Physics 102",
			Description: ptr("Mechanics and Forces"),
			DueDate:     now.Add(3 * day).Format(time.RFC3339),
			Status:      ptr(quizzes.StatusPending),
		},
		{
			Title:       "12-12 Assignment",
			Course:      "English 101",
			Description: ptr("Reading comprehension"),
			DueDate:     now.Add(7 * day).Format(time.RFC3339),
			Status:      ptr(quizzes.StatusPending),
		},
	}

	for _, cmd := range cmds {
		if _, err := sys.Create(ctx, cmd); err != nil {
			return fmt.Errorf("seed quiz %q: %w", cmd.Title, err)
		}
	}
	return nil
}

func ptr(s string) *string {
	return &s
}
