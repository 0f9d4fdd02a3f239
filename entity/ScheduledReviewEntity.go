package entity

import (
	"time"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type ScheduledReviewEntity struct {
	tableName struct{} `pg:"scheduled_reviews, alias:scheduled_reviews"`

	Id               string                `pg:"id, pk, type:varchar"`
	Name             string                `pg:"name, type:varchar"`
	Scope            view.CampaignScope    `pg:"scope, type:jsonb"`
	Recurrence       view.RecurrenceConfig `pg:"recurrence, type:jsonb"`
	ReviewPeriodDays int                   `pg:"review_period_days, type:integer, use_zero"`
	ReminderDays     []int                 `pg:"reminder_days, array"`
	AutoExecute      bool                  `pg:"auto_execute, use_zero"`
	Enabled          bool                  `pg:"enabled, use_zero"`
	NextRunAt        time.Time             `pg:"next_run_at, type:timestamp without time zone"`
	LastRunAt        time.Time             `pg:"last_run_at, type:timestamp without time zone"`
	LastCampaignId   string                `pg:"last_campaign_id, type:varchar"`
	CreatedAt        time.Time             `pg:"created_at, type:timestamp without time zone"`
	CreatedBy        string                `pg:"created_by, type:varchar"`
}

func MakeScheduledReviewView(ent ScheduledReviewEntity) view.ScheduledReview {
	var nextRunAt, lastRunAt *time.Time
	if !ent.NextRunAt.IsZero() {
		nextRunAt = &ent.NextRunAt
	}
	if !ent.LastRunAt.IsZero() {
		lastRunAt = &ent.LastRunAt
	}
	return view.ScheduledReview{
		Id:               ent.Id,
		Name:             ent.Name,
		Scope:            ent.Scope,
		Recurrence:       ent.Recurrence,
		ReviewPeriodDays: ent.ReviewPeriodDays,
		ReminderDays:     ent.ReminderDays,
		AutoExecute:      ent.AutoExecute,
		Enabled:          ent.Enabled,
		NextRunAt:        nextRunAt,
		LastRunAt:        lastRunAt,
		LastCampaignId:   ent.LastCampaignId,
		CreatedAt:        ent.CreatedAt,
		CreatedBy:        ent.CreatedBy,
	}
}
