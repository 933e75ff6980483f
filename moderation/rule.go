package moderation

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chat-rules/contract"
	"chat-rules/domain"
	"chat-rules/errors"
	"chat-rules/rhyme"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MinDuration     = 1
	MaxDuration     = 60
	DefaultDuration = 15
)

// Rule is one activation: a kind, its rendered description, a lifetime
// and the checker owning any per-activation state.
type Rule struct {
	ID              uuid.UUID
	Kind            domain.RuleKind
	Template        string
	DurationMinutes int
	CreatedAt       time.Time
	ExpiresAt       time.Time
	Checker         contract.Checker
}

// Spec is a validated request to build a rule.
type Spec struct {
	Kind            domain.RuleKind `validate:"required,oneof=emoji prefix pirate punctuation rhyme all_caps your_excellence five_words shakespeare corporate_jargon overly_formal ai custom"`
	Text            string
	DurationMinutes int `validate:"min=1,max=60"`
}

var validate = validator.New()

// Validate maps validation failures onto the package sentinels.
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		var fieldErrors validator.ValidationErrors
		if stderrors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			switch fieldErrors[0].Field() {
			case "Kind":
				return fmt.Errorf("%w: %q", errors.ErrUnknownRuleKind, s.Kind)
			case "DurationMinutes":
				return fmt.Errorf("%w: got %d", errors.ErrInvalidDuration, s.DurationMinutes)
			}
		}
		return err
	}
	if s.Kind.IsFreeText() && strings.TrimSpace(s.Text) == "" {
		return errors.ErrMissingRuleText
	}
	return nil
}

type Factory struct {
	log            *slog.Logger
	queue          Enqueuer
	judgeAvailable bool
	detector       *rhyme.Detector
	pirate         *Vocabulary
	timeUnit       time.Duration
	now            func() time.Time
}

type FactoryOption func(*Factory)

// WithTimeUnit scales rule durations, minutes by default.
func WithTimeUnit(unit time.Duration) FactoryOption {
	return func(f *Factory) {
		f.timeUnit = unit
	}
}

func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		f.now = now
	}
}

// NewFactory wires the shared collaborators of every checker. Judged kinds
// degrade to pass-through checkers when judgeAvailable is false.
func NewFactory(log *slog.Logger, queue Enqueuer, judgeAvailable bool, detector *rhyme.Detector, pirate *Vocabulary, opts ...FactoryOption) *Factory {
	f := &Factory{
		log:            log,
		queue:          queue,
		judgeAvailable: judgeAvailable,
		detector:       detector,
		pirate:         pirate,
		timeUnit:       time.Minute,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if !judgeAvailable {
		f.log.Warn("judgment service unavailable, AI judged rules will let every message through")
	}
	return f
}

// NewRule validates the spec and builds a fresh rule with its own checker.
func (f *Factory) NewRule(spec Spec) (*Rule, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	rule := &Rule{
		ID:              uuid.New(),
		Kind:            spec.Kind,
		Template:        Describe(spec.Kind, spec.DurationMinutes, strings.TrimSpace(spec.Text)),
		DurationMinutes: spec.DurationMinutes,
		CreatedAt:       f.now(),
	}
	rule.ExpiresAt = rule.CreatedAt.Add(f.Duration(rule))
	b := base{kind: rule.Kind, description: rule.Template, expiresAt: rule.ExpiresAt, now: f.now}
	rule.Checker = f.checker(b, spec)
	return rule, nil
}

// Duration converts the announced minutes into the factory's time unit.
func (f *Factory) Duration(rule *Rule) time.Duration {
	return time.Duration(rule.DurationMinutes) * f.timeUnit
}

func (f *Factory) checker(b base, spec Spec) contract.Checker {
	if spec.Kind.IsJudged() {
		ruleText, ok := rubrics[spec.Kind]
		if !ok {
			// The judge sees free text rules exactly as announced
			ruleText = b.description
		}
		return f.judged(b, ruleText)
	}

	switch spec.Kind {
	case domain.KindEmoji:
		return &predicateChecker{base: b, check: checkEmoji}
	case domain.KindPrefix:
		return &predicateChecker{base: b, check: checkPrefix}
	case domain.KindPirate:
		return &predicateChecker{base: b, check: checkPirate(f.pirate)}
	case domain.KindPunctuation:
		return &predicateChecker{base: b, check: checkPunctuation}
	case domain.KindRhyme:
		return &rhymeChecker{base: b, detector: f.detector}
	case domain.KindAllCaps:
		return &predicateChecker{base: b, check: checkAllCaps}
	case domain.KindYourExcellence:
		return &predicateChecker{base: b, check: checkYourExcellence}
	case domain.KindFiveWords:
		return &predicateChecker{base: b, check: checkFiveWords}
	default:
		return &predicateChecker{base: b, check: keywordPredicate(spec.Text)}
	}
}

func (f *Factory) judged(b base, ruleText string) contract.Checker {
	if !f.judgeAvailable || f.queue == nil {
		return &predicateChecker{base: b, check: passThrough}
	}
	return &judgedChecker{base: b, ruleText: ruleText, queue: f.queue}
}
