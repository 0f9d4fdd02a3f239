package repository

import (
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/db"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
)

type CampaignRepository interface {
	Create(ent *entity.CampaignEntity) error
	Get(id string) (*entity.CampaignEntity, error)
	Update(ent *entity.CampaignEntity) error
	Delete(id string) error
	List(status string, textFilter string, limit int, page int) ([]entity.CampaignEntity, error)
	// UpdateAggregates persists the derived counters recomputed from the
	// decision source of truth.
	UpdateAggregates(campaignId string, reviewed int, retained int, removed int) error
	ListInReviewDueBetween(from time.Time, to time.Time) ([]entity.CampaignEntity, error)
	ListInReviewOverdue(now time.Time) ([]entity.CampaignEntity, error)
}

func NewCampaignRepository(cp db.ConnectionProvider) CampaignRepository {
	return &campaignRepositoryImpl{cp: cp}
}

type campaignRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r campaignRepositoryImpl) Create(ent *entity.CampaignEntity) error {
	_, err := r.cp.GetConnection().Model(ent).Insert()
	return err
}

func (r campaignRepositoryImpl) Get(id string) (*entity.CampaignEntity, error) {
	result := new(entity.CampaignEntity)
	err := r.cp.GetConnection().Model(result).
		Where("id = ?", id).
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (r campaignRepositoryImpl) Update(ent *entity.CampaignEntity) error {
	_, err := r.cp.GetConnection().Model(ent).Where("id = ?", ent.Id).Update()
	return err
}

func (r campaignRepositoryImpl) Delete(id string) error {
	ent := &entity.CampaignEntity{Id: id}
	_, err := r.cp.GetConnection().Model(ent).WherePK().Delete()
	return err
}

func (r campaignRepositoryImpl) List(status string, textFilter string, limit int, page int) ([]entity.CampaignEntity, error) {
	var result []entity.CampaignEntity
	query := r.cp.GetConnection().Model(&result).
		Order("created_at DESC")
	if status != "" {
		query.Where("status = ?", status)
	}
	if textFilter != "" {
		query.Where("name ilike ?", "%"+utils.LikeEscaped(textFilter)+"%")
	}
	if limit > 0 {
		query.Limit(limit).Offset(limit * page)
	}
	err := query.Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r campaignRepositoryImpl) UpdateAggregates(campaignId string, reviewed int, retained int, removed int) error {
	_, err := r.cp.GetConnection().Model(&entity.CampaignEntity{}).
		Set("reviewed_items = ?", reviewed).
		Set("retained_items = ?", retained).
		Set("removed_items = ?", removed).
		Where("id = ?", campaignId).
		Update()
	if err != nil {
		return errors.Wrapf(err, "failed to update aggregates for campaign %s", campaignId)
	}
	return nil
}

func (r campaignRepositoryImpl) ListInReviewDueBetween(from time.Time, to time.Time) ([]entity.CampaignEntity, error) {
	var result []entity.CampaignEntity
	err := r.cp.GetConnection().Model(&result).
		Where("status = ?", "in_review").
		Where("due_date >= ?", from).
		Where("due_date < ?", to).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r campaignRepositoryImpl) ListInReviewOverdue(now time.Time) ([]entity.CampaignEntity, error) {
	var result []entity.CampaignEntity
	err := r.cp.GetConnection().Model(&result).
		Where("status = ?", "in_review").
		Where("due_date < ?", now).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}
