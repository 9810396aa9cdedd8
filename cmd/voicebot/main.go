// Command voicebot runs the persona content bot. Each subcommand is one
// flow; an external scheduler (or the daemon subcommand) decides when to
// invoke them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/rkahn/voicebot/internal/app"
	"github.com/rkahn/voicebot/internal/config"
	"github.com/rkahn/voicebot/internal/scheduler"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load config")
	}

	config.LoadEnv()
	creds, err := config.LoadCredentials(cfg.Generation.Provider)
	if err != nil {
		// Fatal before any network call or side effect
		logrus.WithError(err).Fatal("Missing credentials")
	}

	a, err := app.New(cfg, creds)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize")
	}
	defer a.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "post":
		if err := a.RunPost(ctx); err != nil {
			logrus.WithError(err).Error("Post run failed")
			os.Exit(1)
		}
	case "engage":
		if err := a.RunEngage(ctx); err != nil {
			logrus.WithError(err).Error("Engagement run failed")
			os.Exit(1)
		}
	case "daemon":
		if err := runDaemon(cfg, a); err != nil {
			logrus.WithError(err).Error("Daemon failed")
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func runDaemon(cfg *config.Config, a *app.App) error {
	s, err := scheduler.New(cfg.Timezone)
	if err != nil {
		return err
	}
	if err := a.Schedule(s); err != nil {
		return err
	}

	s.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	// Let a running job finish before exiting
	<-s.Stop().Done()
	return nil
}

func printUsage() {
	fmt.Println("Usage: voicebot <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  post     Generate and publish one scheduled post")
	fmt.Println("  engage   Search recent posts and reply/favorite")
	fmt.Println("  daemon   Run both flows on the configured schedule")
}
