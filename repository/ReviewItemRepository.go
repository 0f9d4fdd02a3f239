package repository

import (
	"github.com/go-pg/pg/v10"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/db"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
)

type ReviewItemRepository interface {
	// CreateIgnoreDuplicate inserts the item unless one with the same
	// (campaignId, permissionId) already exists. A duplicate is reported as
	// inserted=false with no error, which keeps collection re-runnable.
	CreateIgnoreDuplicate(ent *entity.ReviewItemEntity) (inserted bool, err error)
	Get(itemId string) (*entity.ReviewItemEntity, error)
	List(campaignId string) ([]entity.ReviewItemEntity, error)
	CountByCampaign(campaignId string) (int, error)
	ListUndecided(campaignId string) ([]entity.ReviewItemEntity, error)
	CountUndecided(campaignId string) (int, error)
	DeleteByCampaign(campaignId string) error
}

func NewReviewItemRepository(cp db.ConnectionProvider) ReviewItemRepository {
	return &reviewItemRepositoryImpl{cp: cp}
}

type reviewItemRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r reviewItemRepositoryImpl) CreateIgnoreDuplicate(ent *entity.ReviewItemEntity) (bool, error) {
	result, err := r.cp.GetConnection().Model(ent).
		OnConflict("(campaign_id, permission_id) DO NOTHING").
		Insert()
	if err != nil {
		if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
			return false, nil
		}
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r reviewItemRepositoryImpl) Get(itemId string) (*entity.ReviewItemEntity, error) {
	result := new(entity.ReviewItemEntity)
	err := r.cp.GetConnection().Model(result).
		Where("review_items.id = ?", itemId).
		Relation("Decision").
		Select()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (r reviewItemRepositoryImpl) List(campaignId string) ([]entity.ReviewItemEntity, error) {
	var result []entity.ReviewItemEntity
	err := r.cp.GetConnection().Model(&result).
		Where("review_items.campaign_id = ?", campaignId).
		Relation("Decision").
		Order("resource_path ASC", "resource_name ASC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r reviewItemRepositoryImpl) CountByCampaign(campaignId string) (int, error) {
	return r.cp.GetConnection().Model(&entity.ReviewItemEntity{}).
		Where("campaign_id = ?", campaignId).
		Count()
}

func (r reviewItemRepositoryImpl) ListUndecided(campaignId string) ([]entity.ReviewItemEntity, error) {
	var result []entity.ReviewItemEntity
	err := r.cp.GetConnection().Model(&result).
		Join("LEFT JOIN decisions AS decision ON decision.item_id = review_items.id").
		Where("review_items.campaign_id = ?", campaignId).
		Where("decision.item_id IS NULL").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r reviewItemRepositoryImpl) CountUndecided(campaignId string) (int, error) {
	return r.cp.GetConnection().Model(&entity.ReviewItemEntity{}).
		Join("LEFT JOIN decisions AS decision ON decision.item_id = review_items.id").
		Where("review_items.campaign_id = ?", campaignId).
		Where("decision.item_id IS NULL").
		Count()
}

func (r reviewItemRepositoryImpl) DeleteByCampaign(campaignId string) error {
	_, err := r.cp.GetConnection().Model(&entity.ReviewItemEntity{}).
		Where("campaign_id = ?", campaignId).
		Delete()
	return err
}
