package view

import "time"

type RecurrenceFrequency string

const (
	FrequencyWeekly    RecurrenceFrequency = "weekly"
	FrequencyMonthly   RecurrenceFrequency = "monthly"
	FrequencyQuarterly RecurrenceFrequency = "quarterly"
	FrequencyYearly    RecurrenceFrequency = "yearly"
)

// RecurrenceConfig describes when a scheduled review fires.
// Time is "HH:MM" in the schedule's timezone; zero-value fields fall back
// to defaults (Monday, day 1, January, 09:00, UTC).
type RecurrenceConfig struct {
	Frequency   RecurrenceFrequency `json:"frequency" validate:"required,oneof=weekly monthly quarterly yearly"`
	DayOfWeek   *int                `json:"dayOfWeek,omitempty" validate:"omitempty,gte=0,lte=6"`
	DayOfMonth  *int                `json:"dayOfMonth,omitempty" validate:"omitempty,gte=1,lte=31"`
	MonthOfYear *int                `json:"monthOfYear,omitempty" validate:"omitempty,gte=1,lte=12"`
	Time        string              `json:"time,omitempty" validate:"omitempty,len=5"`
	Timezone    string              `json:"timezone,omitempty"`
}

type ScheduledReview struct {
	Id               string           `json:"id"`
	Name             string           `json:"name"`
	Scope            CampaignScope    `json:"scope"`
	Recurrence       RecurrenceConfig `json:"recurrence"`
	ReviewPeriodDays int              `json:"reviewPeriodDays"`
	ReminderDays     []int            `json:"reminderDays"`
	AutoExecute      bool             `json:"autoExecute"`
	Enabled          bool             `json:"enabled"`
	NextRunAt        *time.Time       `json:"nextRunAt,omitempty"`
	LastRunAt        *time.Time       `json:"lastRunAt,omitempty"`
	LastCampaignId   string           `json:"lastCampaignId,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	CreatedBy        string           `json:"createdBy"`
}

type ScheduledReviews struct {
	ScheduledReviews []ScheduledReview `json:"scheduledReviews"`
}

type ScheduledReviewCreateRequest struct {
	Name             string           `json:"name" validate:"required,max=255"`
	Scope            CampaignScope    `json:"scope" validate:"required"`
	Recurrence       RecurrenceConfig `json:"recurrence" validate:"required"`
	ReviewPeriodDays int              `json:"reviewPeriodDays" validate:"required,gte=1,lte=365"`
	ReminderDays     []int            `json:"reminderDays" validate:"omitempty,dive,gte=1,lte=60"`
	AutoExecute      bool             `json:"autoExecute"`
	Enabled          *bool            `json:"enabled,omitempty"`
}

type ScheduledReviewUpdateRequest struct {
	Name             string            `json:"name,omitempty" validate:"omitempty,max=255"`
	Scope            *CampaignScope    `json:"scope,omitempty"`
	Recurrence       *RecurrenceConfig `json:"recurrence,omitempty"`
	ReviewPeriodDays *int              `json:"reviewPeriodDays,omitempty" validate:"omitempty,gte=1,lte=365"`
	ReminderDays     []int             `json:"reminderDays,omitempty" validate:"omitempty,dive,gte=1,lte=60"`
	AutoExecute      *bool             `json:"autoExecute,omitempty"`
	Enabled          *bool             `json:"enabled,omitempty"`
}
