package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chat-rules/internal"
	"chat-rules/judge"
	"chat-rules/platform"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// The bot reads its own notices back as this author.
const selfName = "modbot"

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Modbot terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the bot on a console platform: commands and messages are
// typed on stdin, notices are printed on stdout.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Verdict cache & judgment service
	store, closeStore, err := internal.NewCache(ctx, config)
	if err != nil {
		return exitRuntime, err
	}
	defer closeStore()
	client := judge.NewClient(log, config.JudgeAPIKey, config.Judge()...)

	// 4. Orchestration
	console := platform.NewConsole(os.Stdout)
	stack, err := internal.Build(log, config, console, client, store)
	if err != nil {
		return exitRuntime, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting orchestrator...")
		if err := stack.Orchestrator.Start(gctx); err != nil {
			return fmt.Errorf("orchestrator error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-stack.Orchestrator.Ready()
		defer stop()
		return readConsole(gctx, log, os.Stdin, os.Stdout, stack.Orchestrator)
	})

	// 5. Wait for Stop or Error
	err = g.Wait()

	// 6. Final Cleanup
	stack.Orchestrator.Stop()
	log.Info("Program stopped cleanly")
	if err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

// readConsole applies every line typed on in until EOF or cancellation.
func readConsole(ctx context.Context, log *slog.Logger, in io.Reader, out io.Writer, handler platform.Handler) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Error("Console read failed", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				log.Info("End of input")
				return nil
			}
			if line == "" {
				continue
			}
			input, err := platform.ParseLine(line, selfName)
			if err != nil {
				fmt.Fprintln(out, color.Red.Sprint(err.Error()))
				continue
			}
			reply, err := platform.Apply(ctx, handler, input)
			switch {
			case err != nil:
				fmt.Fprintln(out, color.Red.Sprint(err.Error()))
			case reply != "":
				fmt.Fprintln(out, color.Green.Sprint(reply))
			}
		}
	}
}
