package suggest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote records calls and returns a canned suggestion or error.
type fakeRemote struct {
	mu      sync.Mutex
	calls   int
	history []HistoryEntry
	result  Suggestion
	err     error
}

func (f *fakeRemote) Fetch(_ context.Context, history []HistoryEntry) (Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.history = history
	return f.result, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestResolveRemoteSuccess verifies a remote suggestion is returned verbatim,
// without fields merged in from the rule table.
func TestResolveRemoteSuccess(t *testing.T) {
	remote := &fakeRemote{result: Suggestion{Exercise: "Rowing", Reason: "cardio", Sets: intPtr(3)}}
	r := NewResolver(remote, quietLogger())

	history := []HistoryEntry{{Exercise: "Squats", Sets: 3, Reps: 10}}
	out := r.ResolveOutcome(context.Background(), "Squats", history)

	assert.Equal(t, SourceRemote, out.Source)
	assert.Zero(t, out.Failure)
	assert.Equal(t, remote.result, out.Suggestion)
	assert.Nil(t, out.Suggestion.Reps)
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, history, remote.history)
}

// TestResolveSuppressesFailures verifies every remote failure kind falls through
// to exactly what Match returns for the same exercise.
func TestResolveSuppressesFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"config absent", &RemoteError{Kind: ConfigAbsent, Err: errors.New("no key")}, ConfigAbsent},
		{"timeout", &RemoteError{Kind: Transport, Err: context.DeadlineExceeded}, Transport},
		{"bad json", &RemoteError{Kind: Malformed, Err: errors.New("invalid character")}, Malformed},
		{"missing keys", &RemoteError{Kind: Malformed, Err: errors.New("reason is required")}, Malformed},
		{"foreign error", errors.New("something else"), Transport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{
				result: Suggestion{Exercise: "garbage", Reason: "partial"},
				err:    tt.err,
			}
			r := NewResolver(remote, quietLogger())

			out := r.ResolveOutcome(context.Background(), "Plank", []HistoryEntry{})
			assert.Equal(t, SourceRules, out.Source)
			assert.Equal(t, tt.want, out.Failure)
			assert.Equal(t, Match("Plank"), out.Suggestion)
			assert.Equal(t, 1, remote.calls)
		})
	}
}

// TestResolveNilHistorySkipsRemote verifies a nil history never reaches the
// remote tier while an empty one does.
func TestResolveNilHistorySkipsRemote(t *testing.T) {
	remote := &fakeRemote{result: Suggestion{Exercise: "Rowing", Reason: "cardio"}}
	r := NewResolver(remote, quietLogger())

	out := r.ResolveOutcome(context.Background(), "dips", nil)
	assert.Equal(t, SourceRules, out.Source)
	assert.Zero(t, out.Failure)
	assert.Equal(t, "Jumping Jacks", out.Suggestion.Exercise)
	assert.Equal(t, 0, remote.calls)

	out = r.ResolveOutcome(context.Background(), "dips", []HistoryEntry{})
	assert.Equal(t, SourceRemote, out.Source)
	assert.Equal(t, 1, remote.calls)
}

func TestResolveWithoutRemote(t *testing.T) {
	r := NewResolver(nil, nil)
	s := r.Resolve(context.Background(), "Barbell Squats", []HistoryEntry{})
	assert.Equal(t, Match("Barbell Squats"), s)
}

// TestResolveTotal verifies Resolve returns a well-formed suggestion for odd input.
func TestResolveTotal(t *testing.T) {
	r := NewResolver(&fakeRemote{err: errors.New("down")}, quietLogger())
	for _, last := range []string{"", "   ", "yoga", "\x00\xff", "Jumping Jacks - 20 reps"} {
		for _, history := range [][]HistoryEntry{nil, {}, {{Exercise: ""}}} {
			s := r.Resolve(context.Background(), last, history)
			assert.NotEmpty(t, s.Exercise)
			assert.NotEmpty(t, s.Reason)
		}
	}
}

// TestResolveWithRemoteClient wires the real client against a failing endpoint
// and a succeeding one.
func TestResolveWithRemoteClient(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeChatReply(t, w, `{"exercise": "Rowing"}`)
	}))
	defer bad.Close()

	r := NewResolver(NewRemoteClient(RemoteConfig{APIKey: "k", BaseURL: bad.URL}), quietLogger())
	out := r.ResolveOutcome(context.Background(), "Jumping Jacks - 20 reps", []HistoryEntry{})
	assert.Equal(t, SourceRules, out.Source)
	assert.Equal(t, Malformed, out.Failure)
	assert.Equal(t, "Squats", out.Suggestion.Exercise)

	good := newChatServer(t, `{"exercise": "Rowing", "reason": "cardio", "sets": "abc", "reps": 12}`)
	defer good.Close()

	r = NewResolver(NewRemoteClient(RemoteConfig{APIKey: "k", BaseURL: good.URL}), quietLogger())
	s := r.Resolve(context.Background(), "Jumping Jacks", []HistoryEntry{})
	require.NotNil(t, s.Reps)
	assert.Equal(t, Suggestion{Exercise: "Rowing", Reason: "cardio", Reps: intPtr(12)}, s)
}

// TestResolveConcurrent verifies concurrent calls do not interfere.
func TestResolveConcurrent(t *testing.T) {
	r := NewResolver(nil, quietLogger())
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := canonicalCycle[i%len(canonicalCycle)]
			want := canonicalCycle[(i+1)%len(canonicalCycle)]
			assert.Equal(t, want, r.Resolve(context.Background(), name, nil).Exercise)
		}()
	}
	wg.Wait()
}
