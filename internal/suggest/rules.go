package suggest

import "strings"

// rule maps a keyword group to the exercise that should follow it.
// Zero sets, reps or duration mean the field is omitted from the suggestion.
type rule struct {
	keywords []string
	exercise string
	reason   string
	sets     int
	reps     int
	duration int
}

func (r rule) suggestion() Suggestion {
	s := Suggestion{Exercise: r.exercise, Reason: r.reason}
	if r.sets > 0 {
		s.Sets = intPtr(r.sets)
	}
	if r.reps > 0 {
		s.Reps = intPtr(r.reps)
	}
	if r.duration > 0 {
		s.Duration = intPtr(r.duration)
	}
	return s
}

// rules is evaluated top to bottom and the first keyword hit wins, so the
// order is part of the contract: "push-up rows" must stay a push-up.
var rules = []rule{
	{
		keywords: []string{"squat"},
		exercise: "Push-ups",
		reason:   "Great leg work! Now balance with upper body strength training.",
		sets:     3,
		reps:     10,
	},
	{
		keywords: []string{"push", "pushup"},
		exercise: "Plank",
		reason:   "Core strength follows upper body work. Hold for 30-60 seconds.",
		sets:     3,
		duration: 45,
	},
	{
		keywords: []string{"plank"},
		exercise: "Lunges",
		reason:   "Core done! Now target your legs with lunges for balance and strength.",
		sets:     3,
		reps:     12,
	},
	{
		keywords: []string{"lunge"},
		exercise: "Burpees",
		reason:   "Full-body explosive movement to boost your heart rate!",
		sets:     3,
		reps:     8,
	},
	{
		keywords: []string{"burpee"},
		exercise: "Mountain Climbers",
		reason:   "Keep the cardio going with this core and cardio combo.",
		sets:     3,
		duration: 30,
	},
	{
		keywords: []string{"mountain", "climber"},
		exercise: "Romanian Deadlifts",
		reason:   "Time for posterior chain strength. Focus on hamstrings and glutes.",
		sets:     3,
		reps:     10,
	},
	{
		keywords: []string{"deadlift"},
		exercise: "Pull-ups or Rows",
		reason:   "Balance that pull movement! Target your back muscles.",
		sets:     3,
		reps:     8,
	},
	{
		keywords: []string{"pull", "row"},
		exercise: "Dips",
		reason:   "Complement your pull with a push. Target triceps and chest.",
		sets:     3,
		reps:     10,
	},
	{
		keywords: []string{"dip"},
		exercise: "Jumping Jacks",
		reason:   "Cardio finisher! Get your heart rate up with this classic move.",
		sets:     3,
		reps:     20,
	},
	{
		keywords: []string{"jumping", "jack"},
		exercise: "Squats",
		reason:   "Cycle complete! Start fresh with squats for lower body strength.",
		sets:     3,
		reps:     15,
	},
}

var defaultRule = rule{
	exercise: "Squats",
	reason:   "Try squats to build lower body strength and mobility!",
	sets:     3,
	reps:     12,
}

// Match returns the rule-table suggestion for the last exercise name.
// Unmatched or empty input yields the default squats suggestion.
func Match(exercise string) Suggestion {
	name := strings.ToLower(strings.TrimSpace(exercise))
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(name, kw) {
				return r.suggestion()
			}
		}
	}
	return defaultRule.suggestion()
}
