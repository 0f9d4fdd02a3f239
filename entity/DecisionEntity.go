package entity

import (
	"time"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

// One decision per review item, item_id is the primary key. Resubmission
// replaces the row instead of adding a second one.
type DecisionEntity struct {
	tableName struct{} `pg:"decisions, alias:decisions"`

	ItemId          string    `pg:"item_id, pk, type:varchar"`
	CampaignId      string    `pg:"campaign_id, type:varchar, notnull"`
	Decision        string    `pg:"decision, type:varchar, notnull"`
	Justification   string    `pg:"justification, type:varchar"`
	ReviewedBy      string    `pg:"reviewed_by, type:varchar"`
	DecidedAt       time.Time `pg:"decided_at, type:timestamp without time zone"`
	ExecutionStatus string    `pg:"execution_status, type:varchar"`
	ExecutionError  string    `pg:"execution_error, type:varchar"`
	ExecutedAt      time.Time `pg:"executed_at, type:timestamp without time zone"`
}

func MakeDecisionView(ent DecisionEntity) view.Decision {
	var executedAt *time.Time
	if !ent.ExecutedAt.IsZero() {
		executedAt = &ent.ExecutedAt
	}
	return view.Decision{
		ItemId:          ent.ItemId,
		CampaignId:      ent.CampaignId,
		Decision:        view.DecisionValue(ent.Decision),
		Justification:   ent.Justification,
		ReviewedBy:      ent.ReviewedBy,
		DecidedAt:       ent.DecidedAt,
		ExecutionStatus: view.ExecutionStatus(ent.ExecutionStatus),
		ExecutionError:  ent.ExecutionError,
		ExecutedAt:      executedAt,
	}
}
