// Copyright 2024-2025 ReviewHub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type NotificationService interface {
	Emit(userId string, campaignId string, notificationType view.NotificationType, title string, message string) error
	ExistsForCampaign(campaignId string, notificationType view.NotificationType) (bool, error)
	ExistsForCampaignToday(campaignId string, notificationType view.NotificationType, now time.Time) (bool, error)
	List(userId string, limit int, page int) (*view.Notifications, error)
	MarkRead(id string) error
}

func NewNotificationService(notificationRepository repository.NotificationRepository) NotificationService {
	return &notificationServiceImpl{
		notificationRepository: notificationRepository,
	}
}

type notificationServiceImpl struct {
	notificationRepository repository.NotificationRepository
}

func (n notificationServiceImpl) Emit(userId string, campaignId string, notificationType view.NotificationType, title string, message string) error {
	ent := &entity.NotificationEntity{
		Id:         uuid.New().String(),
		UserId:     userId,
		CampaignId: campaignId,
		Type:       string(notificationType),
		Title:      title,
		Message:    message,
		CreatedAt:  time.Now(),
	}
	return n.notificationRepository.Create(ent)
}

func (n notificationServiceImpl) ExistsForCampaign(campaignId string, notificationType view.NotificationType) (bool, error) {
	return n.notificationRepository.ExistsForCampaign(campaignId, string(notificationType))
}

func (n notificationServiceImpl) ExistsForCampaignToday(campaignId string, notificationType view.NotificationType, now time.Time) (bool, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return n.notificationRepository.ExistsForCampaignSince(campaignId, string(notificationType), dayStart)
}

func (n notificationServiceImpl) List(userId string, limit int, page int) (*view.Notifications, error) {
	ents, err := n.notificationRepository.List(userId, limit, page)
	if err != nil {
		return nil, err
	}
	notifications := make([]view.Notification, 0, len(ents))
	for _, ent := range ents {
		notifications = append(notifications, entity.MakeNotificationView(ent))
	}
	return &view.Notifications{Notifications: notifications}, nil
}

func (n notificationServiceImpl) MarkRead(id string) error {
	ent, err := n.notificationRepository.Get(id)
	if err != nil {
		return err
	}
	if ent == nil {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.NotificationNotFound,
			Message: exception.NotificationNotFoundMsg,
			Params:  map[string]interface{}{"notificationId": id},
		}
	}
	return n.notificationRepository.MarkRead(id)
}
