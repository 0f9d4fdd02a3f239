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

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

const defaultReviewPeriodDays = 14

type ScheduledReviewService interface {
	CreateScheduledReview(ctx context.SecurityContext, req view.ScheduledReviewCreateRequest) (*view.ScheduledReview, error)
	GetScheduledReview(scheduleId string) (*view.ScheduledReview, error)
	ListScheduledReviews() (*view.ScheduledReviews, error)
	UpdateScheduledReview(scheduleId string, req view.ScheduledReviewUpdateRequest) (*view.ScheduledReview, error)
	DeleteScheduledReview(scheduleId string) error
}

func NewScheduledReviewService(scheduledReviewRepository repository.ScheduledReviewRepository) ScheduledReviewService {
	return &scheduledReviewServiceImpl{
		scheduledReviewRepository: scheduledReviewRepository,
	}
}

type scheduledReviewServiceImpl struct {
	scheduledReviewRepository repository.ScheduledReviewRepository
}

func (s scheduledReviewServiceImpl) CreateScheduledReview(ctx context.SecurityContext, req view.ScheduledReviewCreateRequest) (*view.ScheduledReview, error) {
	// A dry run of the calculator surfaces bad timezones and malformed
	// times before anything is persisted.
	nextRunAt, err := NextRun(req.Recurrence, time.Now())
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidRecurrence,
			Message: exception.InvalidRecurrenceMsg,
			Params:  map[string]interface{}{"error": err.Error()},
		}
	}

	reviewPeriodDays := req.ReviewPeriodDays
	if reviewPeriodDays == 0 {
		reviewPeriodDays = defaultReviewPeriodDays
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	ent := &entity.ScheduledReviewEntity{
		Id:               uuid.New().String(),
		Name:             req.Name,
		Scope:            req.Scope,
		Recurrence:       req.Recurrence,
		ReviewPeriodDays: reviewPeriodDays,
		ReminderDays:     req.ReminderDays,
		AutoExecute:      req.AutoExecute,
		Enabled:          enabled,
		NextRunAt:        nextRunAt,
		CreatedAt:        time.Now(),
		CreatedBy:        ctx.GetUserId(),
	}
	if err := s.scheduledReviewRepository.Create(ent); err != nil {
		return nil, err
	}
	result := entity.MakeScheduledReviewView(*ent)
	return &result, nil
}

func (s scheduledReviewServiceImpl) GetScheduledReview(scheduleId string) (*view.ScheduledReview, error) {
	ent, err := s.getScheduleEntity(scheduleId)
	if err != nil {
		return nil, err
	}
	result := entity.MakeScheduledReviewView(*ent)
	return &result, nil
}

func (s scheduledReviewServiceImpl) ListScheduledReviews() (*view.ScheduledReviews, error) {
	ents, err := s.scheduledReviewRepository.List()
	if err != nil {
		return nil, err
	}
	schedules := make([]view.ScheduledReview, 0, len(ents))
	for _, ent := range ents {
		schedules = append(schedules, entity.MakeScheduledReviewView(ent))
	}
	return &view.ScheduledReviews{ScheduledReviews: schedules}, nil
}

func (s scheduledReviewServiceImpl) UpdateScheduledReview(scheduleId string, req view.ScheduledReviewUpdateRequest) (*view.ScheduledReview, error) {
	ent, err := s.getScheduleEntity(scheduleId)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		ent.Name = req.Name
	}
	if req.Scope != nil {
		ent.Scope = *req.Scope
	}
	if req.ReviewPeriodDays != nil {
		ent.ReviewPeriodDays = *req.ReviewPeriodDays
	}
	if req.ReminderDays != nil {
		ent.ReminderDays = req.ReminderDays
	}
	if req.AutoExecute != nil {
		ent.AutoExecute = *req.AutoExecute
	}
	if req.Enabled != nil {
		ent.Enabled = *req.Enabled
	}
	if req.Recurrence != nil {
		nextRunAt, err := NextRun(*req.Recurrence, time.Now())
		if err != nil {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.InvalidRecurrence,
				Message: exception.InvalidRecurrenceMsg,
				Params:  map[string]interface{}{"error": err.Error()},
			}
		}
		ent.Recurrence = *req.Recurrence
		ent.NextRunAt = nextRunAt
	}
	if err := s.scheduledReviewRepository.Update(ent); err != nil {
		return nil, err
	}
	result := entity.MakeScheduledReviewView(*ent)
	return &result, nil
}

func (s scheduledReviewServiceImpl) DeleteScheduledReview(scheduleId string) error {
	if _, err := s.getScheduleEntity(scheduleId); err != nil {
		return err
	}
	return s.scheduledReviewRepository.Delete(scheduleId)
}

func (s scheduledReviewServiceImpl) getScheduleEntity(scheduleId string) (*entity.ScheduledReviewEntity, error) {
	ent, err := s.scheduledReviewRepository.Get(scheduleId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.ScheduledReviewNotFound,
			Message: exception.ScheduledReviewNotFoundMsg,
			Params:  map[string]interface{}{"scheduleId": scheduleId},
		}
	}
	return ent, nil
}
