package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valpere/threadsmith/internal/ctxlog"
	"github.com/valpere/threadsmith/internal/llm"
	"github.com/valpere/threadsmith/internal/score"
)

// Human is the console side of the workflow. Every method may block
// indefinitely; implementations should honour ctx.
type Human interface {
	// ReadMultiline collects text up to a sentinel line.
	ReadMultiline(ctx context.Context, prompt string) (string, error)
	// Confirm asks a yes/no question until it gets one of the two.
	Confirm(ctx context.Context, question string) (bool, error)
	// Show displays text to the human.
	Show(text string)
}

// LanguageGuard detects a draft's language and checks generated drafts
// against it. Optional.
type LanguageGuard interface {
	DetectISO(text string) (string, bool)
	Check(draft, lang string) error
	// Name returns a human-readable name for an ISO 639-1 code.
	Name(iso string) string
}

// Config holds the limits and generation settings of a run.
//
// MaxIterations is the authoritative ceiling: the transition function ends
// the run once IterationCount exceeds it. GovernorCeiling and MaxSteps are
// backstops that only matter when configured below it.
type Config struct {
	Model       string
	Temperature float64

	MaxChars        int
	MaxIterations   int
	GovernorCeiling int
	MaxSteps        int

	// ApproveAbove is the editor score that must be exceeded for approval.
	ApproveAbove int
	// WriterAttempts is the number of completions the writer may spend on
	// one invocation when responses lack the delimiters.
	WriterAttempts int
	StripMarkdown  bool
}

// DefaultConfig returns the limits the workflow was designed around.
func DefaultConfig() Config {
	return Config{
		Model:           "bartowski/Meta-Llama-3.1-8B-Instruct-GGUF",
		Temperature:     0.7,
		MaxChars:        500,
		MaxIterations:   30,
		GovernorCeiling: DefaultGovernorCeiling,
		MaxSteps:        500,
		ApproveAbove:    5,
		WriterAttempts:  3,
	}
}

// Validate rejects limits that cannot drive a run.
func (c Config) Validate() error {
	var errs []error
	if c.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if c.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("max_chars must be positive, got %d", c.MaxChars))
	}
	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations))
	}
	if c.GovernorCeiling <= 0 {
		errs = append(errs, fmt.Errorf("governor_ceiling must be positive, got %d", c.GovernorCeiling))
	}
	if c.MaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps))
	}
	if c.WriterAttempts <= 0 {
		errs = append(errs, fmt.Errorf("writer_attempts must be positive, got %d", c.WriterAttempts))
	}
	if c.ApproveAbove < 0 || c.ApproveAbove > 10 {
		errs = append(errs, fmt.Errorf("approve_above must be within 0..10, got %d", c.ApproveAbove))
	}
	return errors.Join(errs...)
}

type handlerFunc func(ctx context.Context, s *State) (Update, error)

// Engine drives the workflow. It owns the State Record for the duration of
// Run; handlers run one at a time to completion.
type Engine struct {
	client    llm.Client
	human     Human
	config    Config
	governor  Governor
	scores    *score.Extractor
	languages LanguageGuard
	now       func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithLanguageGuard enables draft language detection.
func WithLanguageGuard(g LanguageGuard) Option {
	return func(e *Engine) { e.languages = g }
}

// WithScoreExtractor replaces the default score rules.
func WithScoreExtractor(x *score.Extractor) Option {
	return func(e *Engine) { e.scores = x }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(client llm.Client, human Human, config Config, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		human:    human,
		config:   config,
		governor: Governor{Ceiling: config.GovernorCeiling},
		scores:   score.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drives s until a terminal decision and returns it. A fresh state
// enters through the user handler; any other status is routed by Next.
//
// An unhandled status ends the run without error. Hitting MaxSteps returns
// the state together with ErrStepLimit. Handler and context errors abort the
// run and are returned with the state as it stood.
func (e *Engine) Run(ctx context.Context, s *State) (*State, error) {
	log := ctxlog.FromContext(ctx)

	step := StepUser
	if s.Status != StatusInitial {
		next, done := e.next(ctx, s)
		if done {
			return s, nil
		}
		step = next
	}

	for steps := 0; ; steps++ {
		if steps >= e.config.MaxSteps {
			log.Warn("step limit reached, stopping run",
				slog.Int("max_steps", e.config.MaxSteps),
				slog.String("status", string(s.Status)))
			return s, ErrStepLimit
		}
		if err := ctx.Err(); err != nil {
			return s, err
		}

		if err := e.invoke(ctx, step, s); err != nil {
			return s, err
		}

		next, done := e.next(ctx, s)
		if done {
			return s, nil
		}
		step = next
	}
}

func (e *Engine) next(ctx context.Context, s *State) (Step, bool) {
	log := ctxlog.FromContext(ctx)
	next, err := Next(s.Status, s.IterationCount, e.config.MaxIterations)
	log.Debug("deciding next step",
		slog.String("status", string(s.Status)),
		slog.Int("iteration", s.IterationCount),
		slog.String("next", next.String()))
	if err != nil {
		log.Error("ending run", slog.Any("error", err))
		return StepTerminal, true
	}
	if next == StepTerminal {
		if s.IterationCount > e.config.MaxIterations {
			log.Warn("iteration limit reached, ending run",
				slog.Int("iterations", s.IterationCount),
				slog.String("status", string(s.Status)))
		}
		return StepTerminal, true
	}
	return next, false
}

func (e *Engine) invoke(ctx context.Context, step Step, s *State) error {
	if e.governor.Enter(s) {
		ctxlog.FromContext(ctx).Warn("maximum overall iterations reached, forcing completion",
			slog.Int("iterations", s.IterationCount))
		return s.Apply(Update{
			Status:   ref(StatusApproved),
			Messages: []Message{e.message(RoleGovernor, "Iteration ceiling exceeded; draft approved without review.")},
		}, e.config.MaxChars)
	}

	h, err := e.handler(step)
	if err != nil {
		return err
	}
	u, err := h(ctx, s)
	if err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	if err := s.Apply(u, e.config.MaxChars); err != nil {
		return fmt.Errorf("%s: apply update: %w", step, err)
	}
	return nil
}

func (e *Engine) handler(step Step) (handlerFunc, error) {
	switch step {
	case StepUser:
		return e.user, nil
	case StepDraftAnalyzer:
		return e.draftAnalyzer, nil
	case StepResearcher:
		return e.researcher, nil
	case StepWriter:
		return e.writer, nil
	case StepEditor:
		return e.editor, nil
	default:
		return nil, fmt.Errorf("no handler for step %s", step)
	}
}

func (e *Engine) message(role Role, content string) Message {
	return Message{Role: role, Content: content, At: e.now()}
}
