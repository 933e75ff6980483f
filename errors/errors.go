package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrInvalidPayload   = fmt.Errorf("invalid event payload")
	ErrInvalidDuration  = fmt.Errorf("duration must be between 1 and 60 minutes")
	ErrUnknownRuleKind  = fmt.Errorf("unknown rule kind")
	ErrMissingRuleText  = fmt.Errorf("rule text is required for free-text rules")
	ErrNoActiveRule     = fmt.Errorf("there is no active rule in this channel")
	ErrJudgeUnavailable = fmt.Errorf("judgment service is not configured")
	ErrJudgeStatus      = fmt.Errorf("judgment service returned an unexpected status")
	ErrEmptyCompletion  = fmt.Errorf("judgment service returned no completion")
	ErrEmptyDictionary  = fmt.Errorf("no pronunciation has been found")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
	ErrMissingChannel   = fmt.Errorf("channel is required")
	ErrAlreadyStarted   = fmt.Errorf("orchestrator already started")
	ErrUnknownCommand   = fmt.Errorf("unknown command")
)
