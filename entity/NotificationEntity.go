package entity

import (
	"time"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type NotificationEntity struct {
	tableName struct{} `pg:"notifications, alias:notifications"`

	Id         string    `pg:"id, pk, type:varchar"`
	UserId     string    `pg:"user_id, type:varchar"`
	CampaignId string    `pg:"campaign_id, type:varchar"`
	Type       string    `pg:"type, type:varchar, notnull"`
	Title      string    `pg:"title, type:varchar"`
	Message    string    `pg:"message, type:varchar"`
	IsRead     bool      `pg:"is_read, use_zero"`
	CreatedAt  time.Time `pg:"created_at, type:timestamp without time zone"`
}

func MakeNotificationView(ent NotificationEntity) view.Notification {
	return view.Notification{
		Id:         ent.Id,
		UserId:     ent.UserId,
		CampaignId: ent.CampaignId,
		Type:       view.NotificationType(ent.Type),
		Title:      ent.Title,
		Message:    ent.Message,
		Read:       ent.IsRead,
		CreatedAt:  ent.CreatedAt,
	}
}
