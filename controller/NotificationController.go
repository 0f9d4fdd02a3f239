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

package controller

import (
	"net/http"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/service"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
)

type NotificationController interface {
	ListNotifications(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
}

func NewNotificationController(notificationService service.NotificationService) NotificationController {
	return &notificationControllerImpl{
		notificationService: notificationService,
	}
}

type notificationControllerImpl struct {
	notificationService service.NotificationService
}

func (n notificationControllerImpl) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, customErr := getListLimit(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	page, customErr := getListPage(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	ctx := context.Create(r)
	notifications, err := n.notificationService.List(ctx.GetUserId(), limit, page)
	if err != nil {
		utils.RespondWithError(w, "Failed to list notifications", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, notifications)
}

func (n notificationControllerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationId := getStringParam(r, "notificationId")
	err := n.notificationService.MarkRead(notificationId)
	if err != nil {
		utils.RespondWithError(w, "Failed to mark notification as read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
