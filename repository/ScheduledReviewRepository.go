package repository

import (
	"time"

	"github.com/go-pg/pg/v10"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/db"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
)

type ScheduledReviewRepository interface {
	Create(ent *entity.ScheduledReviewEntity) error
	Get(id string) (*entity.ScheduledReviewEntity, error)
	Update(ent *entity.ScheduledReviewEntity) error
	Delete(id string) error
	List() ([]entity.ScheduledReviewEntity, error)
	ListDue(now time.Time) ([]entity.ScheduledReviewEntity, error)
}

func NewScheduledReviewRepository(cp db.ConnectionProvider) ScheduledReviewRepository {
	return &scheduledReviewRepositoryImpl{cp: cp}
}

type scheduledReviewRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r scheduledReviewRepositoryImpl) Create(ent *entity.ScheduledReviewEntity) error {
	_, err := r.cp.GetConnection().Model(ent).Insert()
	return err
}

func (r scheduledReviewRepositoryImpl) Get(id string) (*entity.ScheduledReviewEntity, error) {
	result := new(entity.ScheduledReviewEntity)
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

func (r scheduledReviewRepositoryImpl) Update(ent *entity.ScheduledReviewEntity) error {
	_, err := r.cp.GetConnection().Model(ent).Where("id = ?", ent.Id).Update()
	return err
}

func (r scheduledReviewRepositoryImpl) Delete(id string) error {
	ent := &entity.ScheduledReviewEntity{Id: id}
	_, err := r.cp.GetConnection().Model(ent).WherePK().Delete()
	return err
}

func (r scheduledReviewRepositoryImpl) List() ([]entity.ScheduledReviewEntity, error) {
	var result []entity.ScheduledReviewEntity
	err := r.cp.GetConnection().Model(&result).
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r scheduledReviewRepositoryImpl) ListDue(now time.Time) ([]entity.ScheduledReviewEntity, error) {
	var result []entity.ScheduledReviewEntity
	err := r.cp.GetConnection().Model(&result).
		Where("enabled = ?", true).
		Where("next_run_at IS NOT NULL").
		Where("next_run_at <= ?", now).
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}
