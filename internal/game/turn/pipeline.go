package turn

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrOrdering is returned when a pipeline's systems are declared in an order
// that would read state before it is produced.
var ErrOrdering = errors.New("system ordering violation")

// Pipeline runs systems sequentially, once per turn.
type Pipeline struct {
	systems []System
	logger  *zap.Logger
	tracer  trace.Tracer
}

// perTurn resources are rebuilt every turn, so reading one before its writer
// has run observes the previous turn's data.
var perTurn = map[Resource]bool{
	Blocked: true,
	Content: true,
	Intents: true,
	Damage:  true,
}

// NewPipeline validates the declared access of systems and builds a Pipeline.
//
// Postcondition: returns an error wrapping ErrOrdering when a system reads a
// per-turn resource (Blocked, Content, Intents, Damage) that another system
// in the pipeline writes, unless some earlier system has already written it.
// Two systems sharing a name is also rejected.
func NewPipeline(logger *zap.Logger, tracer trace.Tracer, systems ...System) (*Pipeline, error) {
	if err := validateOrder(systems); err != nil {
		return nil, err
	}
	return &Pipeline{systems: systems, logger: logger, tracer: tracer}, nil
}

func validateOrder(systems []System) error {
	writers := map[Resource]int{}
	names := map[string]bool{}
	for _, s := range systems {
		if names[s.Name()] {
			return fmt.Errorf("%w: duplicate system %q", ErrOrdering, s.Name())
		}
		names[s.Name()] = true
		for _, r := range s.Access().Writes {
			writers[r]++
		}
	}

	written := map[Resource]bool{}
	var errs []error
	for _, s := range systems {
		acc := s.Access()
		for _, r := range acc.Reads {
			others := writers[r]
			if slices.Contains(acc.Writes, r) {
				others--
			}
			if perTurn[r] && others > 0 && !written[r] {
				errs = append(errs, fmt.Errorf("%w: system %q reads %s before any system writes it", ErrOrdering, s.Name(), r))
			}
		}
		for _, r := range acc.Writes {
			written[r] = true
		}
	}
	return errors.Join(errs...)
}

// Systems returns the system names in run order.
func (p *Pipeline) Systems() []string {
	out := make([]string, len(p.systems))
	for i, s := range p.systems {
		out[i] = s.Name()
	}
	return out
}

// Run executes one turn.
//
// Postcondition: on success st.Turn is incremented. The first failing system
// aborts the turn and its error is returned wrapped with the system's name.
func (p *Pipeline) Run(ctx context.Context, st *State) error {
	ctx, span := p.tracer.Start(ctx, "turn.run")
	defer span.End()
	span.SetAttributes(attribute.Int("turn.number", st.Turn))

	for _, s := range p.systems {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Run(ctx, st); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, s.Name())
			return fmt.Errorf("turn %d: system %s: %w", st.Turn, s.Name(), err)
		}
	}
	st.Turn++
	p.logger.Debug("turn complete", zap.Int("turn", st.Turn))
	return nil
}
