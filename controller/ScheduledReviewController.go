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
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/service"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type ScheduledReviewController interface {
	CreateScheduledReview(w http.ResponseWriter, r *http.Request)
	GetScheduledReview(w http.ResponseWriter, r *http.Request)
	ListScheduledReviews(w http.ResponseWriter, r *http.Request)
	UpdateScheduledReview(w http.ResponseWriter, r *http.Request)
	DeleteScheduledReview(w http.ResponseWriter, r *http.Request)
}

func NewScheduledReviewController(scheduledReviewService service.ScheduledReviewService) ScheduledReviewController {
	return &scheduledReviewControllerImpl{
		scheduledReviewService: scheduledReviewService,
	}
}

type scheduledReviewControllerImpl struct {
	scheduledReviewService service.ScheduledReviewService
}

func (s scheduledReviewControllerImpl) CreateScheduledReview(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	var req view.ScheduledReviewCreateRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	validationErr := utils.ValidateObject(req)
	if validationErr != nil {
		var customError *exception.CustomError
		if errors.As(validationErr, &customError) {
			utils.RespondWithCustomError(w, customError)
			return
		}
	}

	ctx := context.Create(r)
	schedule, err := s.scheduledReviewService.CreateScheduledReview(ctx, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to create scheduled review", err)
		return
	}
	utils.RespondWithJson(w, http.StatusCreated, schedule)
}

func (s scheduledReviewControllerImpl) GetScheduledReview(w http.ResponseWriter, r *http.Request) {
	scheduleId := getStringParam(r, "scheduleId")
	schedule, err := s.scheduledReviewService.GetScheduledReview(scheduleId)
	if err != nil {
		utils.RespondWithError(w, "Failed to get scheduled review", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, schedule)
}

func (s scheduledReviewControllerImpl) ListScheduledReviews(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.scheduledReviewService.ListScheduledReviews()
	if err != nil {
		utils.RespondWithError(w, "Failed to list scheduled reviews", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, schedules)
}

func (s scheduledReviewControllerImpl) UpdateScheduledReview(w http.ResponseWriter, r *http.Request) {
	scheduleId := getStringParam(r, "scheduleId")
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	var req view.ScheduledReviewUpdateRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	validationErr := utils.ValidateObject(req)
	if validationErr != nil {
		var customError *exception.CustomError
		if errors.As(validationErr, &customError) {
			utils.RespondWithCustomError(w, customError)
			return
		}
	}

	schedule, err := s.scheduledReviewService.UpdateScheduledReview(scheduleId, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to update scheduled review", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, schedule)
}

func (s scheduledReviewControllerImpl) DeleteScheduledReview(w http.ResponseWriter, r *http.Request) {
	scheduleId := getStringParam(r, "scheduleId")
	err := s.scheduledReviewService.DeleteScheduledReview(scheduleId)
	if err != nil {
		utils.RespondWithError(w, "Failed to delete scheduled review", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
