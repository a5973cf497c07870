package suggest

import (
	"context"
	"errors"
	"log/slog"
)

// Remote is the best-effort suggestion source tried before the rule table.
type Remote interface {
	Fetch(ctx context.Context, history []HistoryEntry) (Suggestion, error)
}

// Compile-time check: *RemoteClient satisfies Remote.
var _ Remote = (*RemoteClient)(nil)

// Source identifies which tier produced a suggestion.
type Source string

const (
	SourceRemote Source = "remote"
	SourceRules  Source = "rules"
)

// Outcome is the result of one resolution call.
type Outcome struct {
	Suggestion Suggestion
	Source     Source
	// Failure is set when the remote tier was attempted and failed.
	Failure FailureKind
}

// Resolver picks the next exercise: remote tier first, rule table on any failure.
// It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	remote Remote
	log    *slog.Logger
}

// NewResolver creates a Resolver. A nil remote disables the remote tier.
func NewResolver(remote Remote, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{remote: remote, log: log}
}

// Resolve never fails: it returns the remote suggestion verbatim when available,
// otherwise the rule-table suggestion for lastExercise.
func (r *Resolver) Resolve(ctx context.Context, lastExercise string, history []HistoryEntry) Suggestion {
	return r.ResolveOutcome(ctx, lastExercise, history).Suggestion
}

// ResolveOutcome is Resolve with the deciding tier and failure kind attached.
// A nil history skips the remote tier; an empty one does not.
func (r *Resolver) ResolveOutcome(ctx context.Context, lastExercise string, history []HistoryEntry) Outcome {
	var failure FailureKind
	if r.remote != nil && history != nil {
		s, err := r.remote.Fetch(ctx, history)
		if err == nil {
			return Outcome{Suggestion: s, Source: SourceRemote}
		}

		failure = failureKind(err)
		switch failure {
		case ConfigAbsent:
			r.log.Debug("remote suggestion disabled", "reason", err)
		case Transport:
			r.log.Warn("remote suggestion unreachable, using rules", "kind", failure.String(), "error", err)
		case Malformed:
			r.log.Warn("remote suggestion rejected, using rules", "kind", failure.String(), "error", err)
		}
	}

	return Outcome{Suggestion: Match(lastExercise), Source: SourceRules, Failure: failure}
}

// failureKind maps errors from any Remote onto the three failure kinds.
// Errors that are not a *RemoteError count as transport failures.
func failureKind(err error) FailureKind {
	var re *RemoteError
	if errors.As(err, &re) {
		switch re.Kind {
		case ConfigAbsent, Transport, Malformed:
			return re.Kind
		}
	}
	return Transport
}
