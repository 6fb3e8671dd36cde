package entries

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category splits entries into the two tracked streams. Each user has an
// independent entry collection and streak per category.
type Category string

const (
	CategoryWorkout Category = "workout"
	CategoryDiet    Category = "diet"
)

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryWorkout, CategoryDiet:
		return true
	default:
		return false
	}
}

// Duration holds user-entered duration components. The fields are kept as
// strings on purpose: submissions come from free-form inputs, and a single
// malformed component must degrade to zero instead of failing a whole
// aggregation run.
type Duration struct {
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
}

// TotalMinutes returns hours*60 + minutes. Seconds are ignored for the
// weekly roll-up, malformed or missing components count as zero.
func (d Duration) TotalMinutes() int {
	return intOrZero(d.Hours)*60 + intOrZero(d.Minutes)
}

// TotalSeconds returns the full duration in seconds.
func (d Duration) TotalSeconds() int {
	return intOrZero(d.Hours)*3600 + intOrZero(d.Minutes)*60 + intOrZero(d.Seconds)
}

// Format renders the duration as e.g. "1h30m5s", omitting zero components.
// A zero duration renders as "0s".
func (d Duration) Format() string {
	hours, minutes, seconds := intOrZero(d.Hours), intOrZero(d.Minutes), intOrZero(d.Seconds)

	var sb strings.Builder
	if hours > 0 {
		sb.WriteString(fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		sb.WriteString(fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 {
		sb.WriteString(fmt.Sprintf("%ds", seconds))
	}
	if sb.Len() == 0 {
		return "0s"
	}
	return sb.String()
}

// ParseFormattedDuration converts a Format() string back to total seconds.
// Unparseable input yields zero.
func ParseFormattedDuration(formatted string) int {
	parsed, err := time.ParseDuration(formatted)
	if err != nil {
		return 0
	}
	return int(parsed.Seconds())
}

// Workout is a single logged exercise session. Entries are immutable after
// creation: created and deleted by the owning user, never updated.
type Workout struct {
	ID        int       `json:"id"`
	OwnerUID  string    `json:"ownerUid"`
	Name      string    `json:"name"`
	Duration  Duration  `json:"duration"`
	Sets      string    `json:"sets"`
	Reps      string    `json:"reps"`
	Weight    string    `json:"weight"`
	Unit      string    `json:"unit"` // metric | imperial
	CreatedAt time.Time `json:"createdAt"`
}

// WeightValue parses the logged weight, non-numeric values count as zero.
func (w Workout) WeightValue() float64 {
	return floatOrZero(w.Weight)
}

// DietRecord is a single logged meal or snack.
type DietRecord struct {
	ID        int       `json:"id"`
	OwnerUID  string    `json:"ownerUid"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	Calories  string    `json:"calories"`
	CreatedAt time.Time `json:"createdAt"`
}

// CalorieValue parses the logged calories, non-numeric values count as zero.
func (d DietRecord) CalorieValue() float64 {
	return floatOrZero(d.Calories)
}

func intOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
