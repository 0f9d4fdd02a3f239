package repository

import (
	"time"

	"github.com/go-pg/pg/v10"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/db"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
)

type NotificationRepository interface {
	Create(ent *entity.NotificationEntity) error
	Get(id string) (*entity.NotificationEntity, error)
	List(userId string, limit int, page int) ([]entity.NotificationEntity, error)
	MarkRead(id string) error
	// ExistsForCampaign checks the once-ever dedup window (overdue).
	ExistsForCampaign(campaignId string, notificationType string) (bool, error)
	// ExistsForCampaignSince checks a bounded dedup window (reminders use
	// the start of the current calendar day).
	ExistsForCampaignSince(campaignId string, notificationType string, since time.Time) (bool, error)
}

func NewNotificationRepository(cp db.ConnectionProvider) NotificationRepository {
	return &notificationRepositoryImpl{cp: cp}
}

type notificationRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r notificationRepositoryImpl) Create(ent *entity.NotificationEntity) error {
	_, err := r.cp.GetConnection().Model(ent).Insert()
	return err
}

func (r notificationRepositoryImpl) Get(id string) (*entity.NotificationEntity, error) {
	result := new(entity.NotificationEntity)
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

func (r notificationRepositoryImpl) List(userId string, limit int, page int) ([]entity.NotificationEntity, error) {
	var result []entity.NotificationEntity
	query := r.cp.GetConnection().Model(&result).
		Order("created_at DESC")
	if userId != "" {
		query.Where("user_id = ?", userId)
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

func (r notificationRepositoryImpl) MarkRead(id string) error {
	_, err := r.cp.GetConnection().Model(&entity.NotificationEntity{}).
		Set("is_read = ?", true).
		Where("id = ?", id).
		Update()
	return err
}

func (r notificationRepositoryImpl) ExistsForCampaign(campaignId string, notificationType string) (bool, error) {
	return r.cp.GetConnection().Model(&entity.NotificationEntity{}).
		Where("campaign_id = ?", campaignId).
		Where("type = ?", notificationType).
		Exists()
}

func (r notificationRepositoryImpl) ExistsForCampaignSince(campaignId string, notificationType string, since time.Time) (bool, error) {
	return r.cp.GetConnection().Model(&entity.NotificationEntity{}).
		Where("campaign_id = ?", campaignId).
		Where("type = ?", notificationType).
		Where("created_at >= ?", since).
		Exists()
}
