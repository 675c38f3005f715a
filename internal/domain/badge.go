package domain

// ConditionType categorizes what a badge threshold is measured against.
type ConditionType string

const (
	CondMonthlySteps    ConditionType = "MONTHLY_STEPS"
	CondMonthlyDistance ConditionType = "MONTHLY_DISTANCE"
	CondTrailsCompleted ConditionType = "TRAILS_COMPLETED"
	CondMonthlyMaster   ConditionType = "MONTHLY_MASTER"
	CondYearlyChampion  ConditionType = "YEARLY_CHAMPION"
)

// Badge is static catalog data, not user state.
// ConditionValue is steps for MONTHLY_STEPS, meters for
// MONTHLY_DISTANCE, a completion count for TRAILS_COMPLETED, and the
// sentinel -1 for the all-trails badge.
type Badge struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Icon           string        `json:"icon"`
	ConditionType  ConditionType `json:"condition_type"`
	ConditionValue float64       `json:"condition_value"`
}

// AllTrailsSentinel marks the trail badge that unlocks only when every
// catalog trail has been completed.
const AllTrailsSentinel = -1
