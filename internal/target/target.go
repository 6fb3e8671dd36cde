package target

import (
	"errors"
	"time"
)

var ErrTargetNotFound = errors.New("calorie target not found")

// GoalType flips the interpretation of the daily target. A deficit goal
// wants the day's total to stay at or below the target, a surplus goal
// wants it at or above.
type GoalType string

const (
	GoalDeficit GoalType = "deficit"
	GoalSurplus GoalType = "surplus"
)

func (g GoalType) String() string {
	return string(g)
}

func (g GoalType) IsValid() bool {
	switch g {
	case GoalDeficit, GoalSurplus:
		return true
	default:
		return false
	}
}

// CalorieTarget is the per-user daily calorie goal.
type CalorieTarget struct {
	OwnerUID       string    `json:"ownerUid"`
	TargetCalories float64   `json:"targetCalories"`
	GoalType       GoalType  `json:"goalType"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (t CalorieTarget) Validate() error {
	if t.TargetCalories <= 0 {
		return errors.New("target calories must be positive")
	}
	if !t.GoalType.IsValid() {
		return errors.New("invalid goal type")
	}
	return nil
}

// Progress is the outcome of evaluating today's entries against the target.
// RemainingOrExceeded is target minus total: under a deficit goal a negative
// value means the target was blown through, under a surplus goal a negative
// value means the target was already met. The sign convention is shared,
// the reading of it depends on the goal.
type Progress struct {
	TargetCalories      float64  `json:"targetCalories"`
	GoalType            GoalType `json:"goalType"`
	TotalCalories       float64  `json:"totalCalories"`
	Percentage          float64  `json:"percentage"`
	RemainingOrExceeded float64  `json:"remainingOrExceeded"`
}
