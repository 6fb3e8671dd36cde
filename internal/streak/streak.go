package streak

import (
	"errors"

	"github.com/verudex/Momentum-sub000/internal/entries"
	"github.com/verudex/Momentum-sub000/internal/target"
)

var ErrStateNotFound = errors.New("streak state not found")

// State is the persisted streak counter for one (user, category) pair.
// LastCheckedDayKey marks the logical day the state was last touched: for
// the diet streak that is the day of the last evaluation cycle, for the
// workout streak the day of the last explicit advance.
// LastGoalType and LastTargetValue snapshot the diet goal parameters the
// streak was built against, a change of either resets the count.
type State struct {
	OwnerUID          string           `json:"ownerUid"`
	Category          entries.Category `json:"category"`
	Count             int              `json:"count"`
	LastCheckedDayKey string           `json:"lastCheckedDayKey"`
	LastGoalType      target.GoalType  `json:"lastGoalType,omitempty"`
	LastTargetValue   float64          `json:"lastTargetValue,omitempty"`
}

func newState(ownerUID string, category entries.Category) *State {
	return &State{
		OwnerUID: ownerUID,
		Category: category,
	}
}
