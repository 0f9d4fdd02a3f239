package view

import "time"

type NotificationType string

const (
	NotificationScheduleTriggered NotificationType = "schedule_triggered"
	NotificationCampaignDueSoon   NotificationType = "campaign_due_soon"
	NotificationCampaignOverdue   NotificationType = "campaign_overdue"
	NotificationExecutionComplete NotificationType = "execution_complete"
)

type Notification struct {
	Id         string           `json:"id"`
	UserId     string           `json:"userId"`
	CampaignId string           `json:"campaignId,omitempty"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type Notifications struct {
	Notifications []Notification `json:"notifications"`
}
