package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"chat-rules/cachestore"
	"chat-rules/domain"
	"chat-rules/internal"
	"chat-rules/platform"
	"chat-rules/runtime"

	"github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

const (
	selfName        = "modbot"
	violationMarker = "RULE VIOLATION"
)

type Scenario struct {
	Name string `yaml:"name"`
	// TimeUnit scales rule minutes, so expiry can be replayed quickly
	TimeUnit time.Duration `yaml:"time_unit"`
	// Judge lists the raw answers of the judgment service
	Judge  []string `yaml:"judge"`
	Steps  []Step   `yaml:"steps"`
	Expect Expect   `yaml:"expect"`
}

type Step struct {
	Line  string        `yaml:"line"`
	Sleep time.Duration `yaml:"sleep"`
}

type Expect struct {
	Violations int      `yaml:"violations"`
	Deleted    int      `yaml:"deleted"`
	JudgeCalls int      `yaml:"judge_calls"`
	Notices    []string `yaml:"notices"`
	Errors     []string `yaml:"errors"`
}

type Outcome struct {
	Violations int
	Deleted    int
	JudgeCalls int
	Notices    []string
	Errors     []string
}

type Result struct {
	Scenario Scenario
	Outcome  Outcome
	Failures []string
}

func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if scenario.Name == "" {
		scenario.Name = path
	}
	return scenario, nil
}

// Check lists every expectation the outcome misses.
func (o Outcome) Check(expect Expect) []string {
	var failures []string
	if o.Violations != expect.Violations {
		failures = append(failures, fmt.Sprintf("violations: got %d, want %d", o.Violations, expect.Violations))
	}
	if o.Deleted != expect.Deleted {
		failures = append(failures, fmt.Sprintf("deleted: got %d, want %d", o.Deleted, expect.Deleted))
	}
	if o.JudgeCalls != expect.JudgeCalls {
		failures = append(failures, fmt.Sprintf("judge calls: got %d, want %d", o.JudgeCalls, expect.JudgeCalls))
	}
	for _, want := range expect.Notices {
		if !containsAny(o.Notices, want) {
			failures = append(failures, fmt.Sprintf("missing notice %q", want))
		}
	}
	for _, want := range expect.Errors {
		if !containsAny(o.Errors, want) {
			failures = append(failures, fmt.Sprintf("missing error %q", want))
		}
	}
	return failures
}

func containsAny(texts []string, fragment string) bool {
	for _, text := range texts {
		if strings.Contains(text, fragment) {
			return true
		}
	}
	return false
}

// syncHandler checks messages inline so a replay is deterministic.
type syncHandler struct {
	*runtime.Orchestrator
	ctx context.Context
	log *slog.Logger
}

func (h syncHandler) HandleMessage(msg domain.Message) {
	if _, err := h.CheckMessage(h.ctx, msg); err != nil {
		h.log.Warn("Message check interrupted", "message", msg.ID, "error", err)
	}
}

// RunScenario replays one scenario on a fresh bot.
func RunScenario(ctx context.Context, log *slog.Logger, replay Config, scenario Scenario) (Outcome, error) {
	var config internal.Config
	if err := env.Unmarshal(env.EnvSet{}, &config); err != nil {
		return Outcome{}, err
	}
	config.BatchDebounce = replay.Debounce
	config.BatchSpacing = 0
	config.NoticeDeleteDelay = 0
	config.MetricInterval = time.Hour
	if scenario.TimeUnit > 0 {
		config.RuleTimeUnit = scenario.TimeUnit
	}

	recorder := platform.NewRecorder()
	judgment := newScriptedJudge(scenario.Judge)
	stack, err := internal.Build(log, config, recorder, judgment, cachestore.Nop{})
	if err != nil {
		return Outcome{}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := stack.Orchestrator.Start(runCtx); err != nil {
			log.Error("Orchestrator failed", "error", err)
		}
	}()
	<-stack.Orchestrator.Ready()

	var outcome Outcome
	handler := syncHandler{Orchestrator: stack.Orchestrator, ctx: runCtx, log: log}
	for _, step := range scenario.Steps {
		if step.Sleep > 0 {
			time.Sleep(step.Sleep)
		}
		if step.Line == "" {
			continue
		}
		input, err := platform.ParseLine(step.Line, selfName)
		if err == nil {
			_, err = platform.Apply(runCtx, handler, input)
		}
		if err != nil {
			outcome.Errors = append(outcome.Errors, err.Error())
		}
	}

	time.Sleep(replay.Settle)
	stack.Orchestrator.Stop()
	<-done

	for _, notice := range recorder.Notices() {
		outcome.Notices = append(outcome.Notices, notice.Text)
		if strings.Contains(notice.Text, violationMarker) {
			outcome.Violations++
		}
	}
	outcome.Deleted = len(recorder.Deleted())
	outcome.JudgeCalls = judgment.Calls()
	return outcome, nil
}
