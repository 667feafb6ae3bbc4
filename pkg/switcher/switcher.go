package switcher

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/profhop/profhop/pkg/log"
	"github.com/profhop/profhop/pkg/profile"
)

// DefaultGraceDelay is how long to wait after a host invocation completes
// without error, giving the editor time to process the request
// asynchronously. A heuristic, not a synchronization guarantee.
const DefaultGraceDelay = 500 * time.Millisecond

// Host is the editor operation that switches profiles. An empty identifier
// requests the editor's built-in default profile.
type Host interface {
	SwitchProfile(ctx context.Context, identifier string) error
}

// Lookup translates profile names to editor-internal identifiers.
// [*profile.Registry] implements it.
type Lookup interface {
	LookupIdentifier(name string) (string, bool)
}

// StrategyKind tags how a strategy addresses the profile.
type StrategyKind string

const (
	// ByEmpty invokes the host with an empty identifier.
	ByEmpty StrategyKind = "empty"
	// ByIdentifier invokes the host with a registry identifier.
	ByIdentifier StrategyKind = "identifier"
	// ByName invokes the host with the raw profile name.
	ByName StrategyKind = "name"
)

// Strategy is one invocation descriptor in a [Plan].
type Strategy struct {
	Kind  StrategyKind
	Value string
}

// Status is the aggregate outcome of an apply.
type Status string

const (
	Switched Status = "switched"
	Failed   Status = "failed"
)

// Attempt records a single strategy invocation and its error, nil for the
// winning attempt.
type Attempt struct {
	Err      error
	Strategy Strategy
}

// Outcome reports what Apply did. It is best-effort: Switched means a host
// invocation completed without error, not that the editor confirmed the
// profile change.
type Outcome struct {
	Status   Status
	Target   string
	Attempts []Attempt
}

// Applied returns the winning strategy for a Switched outcome.
func (o Outcome) Applied() (Strategy, bool) {
	if o.Status != Switched || len(o.Attempts) == 0 {
		return Strategy{}, false
	}

	return o.Attempts[len(o.Attempts)-1].Strategy, true
}

// Switcher tries invocation strategies against a [Host] in order.
type Switcher struct {
	host       Host
	lookup     Lookup
	tracer     trace.Tracer
	graceDelay time.Duration
}

type Opt func(s *Switcher)

// WithLookup sets the identifier lookup used when planning.
func WithLookup(l Lookup) Opt {
	return func(s *Switcher) {
		s.lookup = l
	}
}

// WithGraceDelay overrides [DefaultGraceDelay]. Zero disables the wait.
func WithGraceDelay(d time.Duration) Opt {
	return func(s *Switcher) {
		s.graceDelay = d
	}
}

// New creates a [Switcher] for the given host.
func New(host Host, opts ...Opt) *Switcher {
	s := &Switcher{
		host:       host,
		tracer:     otel.Tracer("switcher"),
		graceDelay: DefaultGraceDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Plan builds the ordered strategy list for a target profile name.
//
// The sentinel [profile.DefaultName] never consults the lookup: the editor's
// built-in profile is addressed with an empty identifier first, then by its
// literal name. Any other target tries its registry identifier when one
// resolves, then always the raw name.
func (s *Switcher) Plan(target string) []Strategy {
	if target == profile.DefaultName {
		return []Strategy{
			{Kind: ByEmpty},
			{Kind: ByName, Value: profile.DefaultName},
		}
	}

	var plan []Strategy

	if s.lookup != nil {
		if id, ok := s.lookup.LookupIdentifier(target); ok {
			plan = append(plan, Strategy{Kind: ByIdentifier, Value: id})
		}
	}

	return append(plan, Strategy{Kind: ByName, Value: target})
}

// Apply tries each strategy in order and stops at the first host invocation
// that completes without error. It is strictly sequential, catches every
// host error, and never returns a Go error: exhaustion yields a Failed
// outcome carrying the per-attempt errors.
func (s *Switcher) Apply(ctx context.Context, target string) Outcome {
	ctx, span := s.tracer.Start(ctx, "apply", trace.WithAttributes(
		attribute.String("profile", target),
	))
	defer span.End()

	logger := log.WithContext(ctx).With(slog.String("profile", target))

	outcome := Outcome{Target: target, Status: Failed}

	for _, strategy := range s.Plan(target) {
		err := s.invoke(ctx, strategy)
		outcome.Attempts = append(outcome.Attempts, Attempt{Strategy: strategy, Err: err})

		if err != nil {
			logger.DebugContext(ctx, "switch strategy failed",
				slog.String("strategy", string(strategy.Kind)),
				slog.Any("error", err),
			)

			continue
		}

		// Give the editor time to process the request before the caller
		// moves on. Best-effort, the host gives no confirmation signal.
		s.wait(ctx)

		outcome.Status = Switched

		logger.DebugContext(ctx, "profile switch requested",
			slog.String("strategy", string(strategy.Kind)),
		)

		return outcome
	}

	logger.WarnContext(ctx, "all switch strategies failed",
		slog.Int("attempts", len(outcome.Attempts)),
	)

	return outcome
}

func (s *Switcher) invoke(ctx context.Context, strategy Strategy) error {
	ctx, span := s.tracer.Start(ctx, "invoke", trace.WithAttributes(
		attribute.String("strategy", string(strategy.Kind)),
	))
	defer span.End()

	return s.host.SwitchProfile(ctx, strategy.Value)
}

func (s *Switcher) wait(ctx context.Context) {
	if s.graceDelay <= 0 {
		return
	}

	timer := time.NewTimer(s.graceDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
