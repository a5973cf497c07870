package suggest

import "time"

// Suggestion is the next-exercise recommendation returned to clients.
// Exercise and Reason are always set; the numeric fields are optional.
type Suggestion struct {
	Exercise string `json:"exercise"`
	Reason   string `json:"reason"`
	Sets     *int   `json:"sets,omitempty"`
	Reps     *int   `json:"reps,omitempty"`
	Duration *int   `json:"duration,omitempty"` // seconds
}

// HistoryEntry is one past workout handed to the resolver, most recent first.
type HistoryEntry struct {
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Duration  int       `json:"duration"`
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryLimit is the number of recent workouts callers pass to Resolve.
const HistoryLimit = 5

// Starter is returned by the latest-suggestion query before any workout exists.
func Starter() Suggestion {
	return Suggestion{
		Exercise: "Start with squats",
		Reason:   "No workouts logged yet. Great starting exercise!",
	}
}

func intPtr(v int) *int {
	return &v
}
