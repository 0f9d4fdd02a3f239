package repository

import (
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/db"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
)

type DecisionCounts struct {
	Reviewed int
	Retained int
	Removed  int
}

type DecisionRepository interface {
	// Upsert writes the decision for an item, replacing a previous verdict
	// if one exists. item_id is the primary key, so resubmission can never
	// produce a second row.
	Upsert(ent *entity.DecisionEntity) error
	Get(itemId string) (*entity.DecisionEntity, error)
	// CountsByCampaign recomputes the aggregate counters from the decisions
	// table. Counters are always derived this way, never incremented.
	CountsByCampaign(campaignId string) (DecisionCounts, error)
	ListPendingRemovals(campaignId string) ([]entity.DecisionEntity, error)
	UpdateExecution(itemId string, status string, executionError string, executedAt time.Time) error
	ResetFailedExecutions(campaignId string) (int, error)
}

func NewDecisionRepository(cp db.ConnectionProvider) DecisionRepository {
	return &decisionRepositoryImpl{cp: cp}
}

type decisionRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r decisionRepositoryImpl) Upsert(ent *entity.DecisionEntity) error {
	// Resubmitting remove after the permission was already deleted must not
	// re-queue the deletion, the completed execution record stays.
	keepExecuted := "decisions.execution_status = 'completed' AND EXCLUDED.decision = 'remove'"
	_, err := r.cp.GetConnection().Model(ent).
		OnConflict("(item_id) DO UPDATE").
		Set("decision = EXCLUDED.decision").
		Set("justification = EXCLUDED.justification").
		Set("reviewed_by = EXCLUDED.reviewed_by").
		Set("decided_at = EXCLUDED.decided_at").
		Set("execution_status = CASE WHEN "+keepExecuted+" THEN decisions.execution_status ELSE EXCLUDED.execution_status END").
		Set("execution_error = CASE WHEN "+keepExecuted+" THEN decisions.execution_error ELSE EXCLUDED.execution_error END").
		Set("executed_at = CASE WHEN "+keepExecuted+" THEN decisions.executed_at ELSE EXCLUDED.executed_at END").
		Insert()
	if err != nil {
		return errors.Wrapf(err, "failed to upsert decision for item %s", ent.ItemId)
	}
	return nil
}

func (r decisionRepositoryImpl) Get(itemId string) (*entity.DecisionEntity, error) {
	result := new(entity.DecisionEntity)
	err := r.cp.GetConnection().Model(result).
		Where("item_id = ?", itemId).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (r decisionRepositoryImpl) CountsByCampaign(campaignId string) (DecisionCounts, error) {
	var rows []struct {
		Decision string
		Count    int
	}
	err := r.cp.GetConnection().Model(&entity.DecisionEntity{}).
		Column("decision").
		ColumnExpr("count(*) AS count").
		Where("campaign_id = ?", campaignId).
		Group("decision").
		Select(&rows)
	if err != nil {
		return DecisionCounts{}, err
	}
	counts := DecisionCounts{}
	for _, row := range rows {
		switch row.Decision {
		case "retain":
			counts.Retained = row.Count
		case "remove":
			counts.Removed = row.Count
		}
	}
	counts.Reviewed = counts.Retained + counts.Removed
	return counts, nil
}

func (r decisionRepositoryImpl) ListPendingRemovals(campaignId string) ([]entity.DecisionEntity, error) {
	var result []entity.DecisionEntity
	err := r.cp.GetConnection().Model(&result).
		Where("campaign_id = ?", campaignId).
		Where("decision = ?", "remove").
		Where("execution_status = ?", "pending").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r decisionRepositoryImpl) UpdateExecution(itemId string, status string, executionError string, executedAt time.Time) error {
	_, err := r.cp.GetConnection().Model(&entity.DecisionEntity{}).
		Set("execution_status = ?", status).
		Set("execution_error = ?", executionError).
		Set("executed_at = ?", executedAt).
		Where("item_id = ?", itemId).
		Update()
	return err
}

func (r decisionRepositoryImpl) ResetFailedExecutions(campaignId string) (int, error) {
	result, err := r.cp.GetConnection().Model(&entity.DecisionEntity{}).
		Set("execution_status = ?", "pending").
		Set("execution_error = ?", "").
		Where("campaign_id = ?", campaignId).
		Where("decision = ?", "remove").
		Where("execution_status = ?", "failed").
		Update()
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
