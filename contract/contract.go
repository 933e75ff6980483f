//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-rules/domain"
	"chat-rules/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// Report receives the outcome of a compliance check.
// A nil violation means the message complies.
type Report func(v *domain.Violation)

// Checker decides whether a message complies with one rule activation.
// Check must call report exactly once, possibly from another goroutine.
type Checker interface {
	Kind() domain.RuleKind
	Describe() string
	IsExpired() bool
	Check(ctx context.Context, msg domain.Message, report Report)
}

// Judge is the external judgment service.
// It returns the raw completion text, parsing is left to the caller.
type Judge interface {
	Available() bool
	Evaluate(ctx context.Context, request domain.JudgmentRequest) (string, error)
}

// Platform is the chat network the boundary talks to.
type Platform interface {
	PostNotice(ctx context.Context, channel domain.ChannelID, text string) (string, error)
	DeleteMessage(ctx context.Context, channel domain.ChannelID, messageID string) error
}

type IOrchestrator interface {
	RegisterSinks(sink ...EventSink)
	Start(ctx context.Context) error
	Stop()
}
