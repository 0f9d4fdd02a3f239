package entity

import (
	"time"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type CampaignEntity struct {
	tableName struct{} `pg:"campaigns, alias:campaigns"`

	Id                string             `pg:"id, pk, type:varchar"`
	Name              string             `pg:"name, type:varchar"`
	Scope             view.CampaignScope `pg:"scope, type:jsonb"`
	Status            string             `pg:"status, type:varchar, use_zero"`
	TotalItems        int                `pg:"total_items, type:integer, use_zero"`
	ReviewedItems     int                `pg:"reviewed_items, type:integer, use_zero"`
	RetainedItems     int                `pg:"retained_items, type:integer, use_zero"`
	RemovedItems      int                `pg:"removed_items, type:integer, use_zero"`
	DueDate           time.Time          `pg:"due_date, type:timestamp without time zone"`
	StartDate         time.Time          `pg:"start_date, type:timestamp without time zone"`
	CompletedAt       time.Time          `pg:"completed_at, type:timestamp without time zone"`
	CreatedAt         time.Time          `pg:"created_at, type:timestamp without time zone"`
	CreatedBy         string             `pg:"created_by, type:varchar"`
	ScheduledReviewId string             `pg:"scheduled_review_id, type:varchar"`
}

func MakeCampaignView(ent CampaignEntity) view.Campaign {
	var startDate, completedAt *time.Time
	if !ent.StartDate.IsZero() {
		startDate = &ent.StartDate
	}
	if !ent.CompletedAt.IsZero() {
		completedAt = &ent.CompletedAt
	}
	return view.Campaign{
		Id:                ent.Id,
		Name:              ent.Name,
		Scope:             ent.Scope,
		Status:            view.CampaignStatus(ent.Status),
		TotalItems:        ent.TotalItems,
		ReviewedItems:     ent.ReviewedItems,
		RetainedItems:     ent.RetainedItems,
		RemovedItems:      ent.RemovedItems,
		DueDate:           ent.DueDate,
		StartDate:         startDate,
		CompletedAt:       completedAt,
		CreatedAt:         ent.CreatedAt,
		CreatedBy:         ent.CreatedBy,
		ScheduledReviewId: ent.ScheduledReviewId,
	}
}
