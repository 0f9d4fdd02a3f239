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
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/client"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/metrics"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

// ExecutionService applies approved removals. One failed removal call is
// recorded on the decision and never aborts the rest of the batch.
type ExecutionService interface {
	ExecuteCampaign(ctx context.Context, campaignId string) (*view.ExecutionResult, error)
	// RetryFailedExecutions re-queues decisions whose removal failed, so a
	// later ExecuteCampaign pass picks them up again.
	RetryFailedExecutions(campaignId string) (int, error)
}

func NewExecutionService(
	graphClient client.GraphClient,
	campaignRepository repository.CampaignRepository,
	reviewItemRepository repository.ReviewItemRepository,
	decisionRepository repository.DecisionRepository,
	campaignService CampaignService,
	notificationService NotificationService) ExecutionService {
	return &executionServiceImpl{
		graphClient:          graphClient,
		campaignRepository:   campaignRepository,
		reviewItemRepository: reviewItemRepository,
		decisionRepository:   decisionRepository,
		campaignService:      campaignService,
		notificationService:  notificationService,
	}
}

type executionServiceImpl struct {
	graphClient          client.GraphClient
	campaignRepository   repository.CampaignRepository
	reviewItemRepository repository.ReviewItemRepository
	decisionRepository   repository.DecisionRepository
	campaignService      CampaignService
	notificationService  NotificationService
}

func (e executionServiceImpl) ExecuteCampaign(ctx context.Context, campaignId string) (*view.ExecutionResult, error) {
	campaign, err := e.campaignRepository.Get(campaignId)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.CampaignNotFound,
			Message: exception.CampaignNotFoundMsg,
			Params:  map[string]interface{}{"campaignId": campaignId},
		}
	}

	pending, err := e.decisionRepository.ListPendingRemovals(campaignId)
	if err != nil {
		return nil, err
	}

	result := view.ExecutionResult{CampaignId: campaignId}
	for _, decision := range pending {
		if ctx.Err() != nil {
			// Execution is resumable: remaining decisions stay pending.
			return &result, ctx.Err()
		}
		item, err := e.reviewItemRepository.Get(decision.ItemId)
		if err == nil && item == nil {
			err = &exception.CustomError{
				Status:  http.StatusNotFound,
				Code:    exception.ReviewItemNotFound,
				Message: exception.ReviewItemNotFoundMsg,
				Params:  map[string]interface{}{"itemId": decision.ItemId},
			}
		}
		if err == nil {
			ref := client.ResourceRef{
				SiteId:       item.SiteId,
				DriveId:      item.DriveId,
				ItemId:       itemIdOf(item.ResourceType, item.ResourceId),
				ResourceType: item.ResourceType,
			}
			err = e.graphClient.DeletePermission(ctx, ref, item.PermissionId)
		}
		if err != nil {
			log.Errorf("Execution for campaign %s: failed to remove permission of item %s: %v", campaignId, decision.ItemId, err)
			if updErr := e.decisionRepository.UpdateExecution(decision.ItemId, string(view.ExecutionFailed), err.Error(), time.Time{}); updErr != nil {
				log.Errorf("Execution for campaign %s: failed to record failure for item %s: %v", campaignId, decision.ItemId, updErr)
			}
			metrics.PermissionRemovalsTotal.WithLabelValues("failed").Inc()
			result.Failed++
			continue
		}
		metrics.PermissionRemovalsTotal.WithLabelValues("completed").Inc()
		if err := e.decisionRepository.UpdateExecution(decision.ItemId, string(view.ExecutionCompleted), "", time.Now()); err != nil {
			log.Errorf("Execution for campaign %s: failed to record success for item %s: %v", campaignId, decision.ItemId, err)
		}
		result.Executed++
	}

	completed, err := e.campaignService.CompleteIfFullyDecided(campaignId)
	if err != nil {
		return &result, err
	}
	if completed {
		err = e.notificationService.Emit(campaign.CreatedBy, campaignId, view.NotificationExecutionComplete,
			"Access review execution finished",
			"Approved removals for campaign '"+campaign.Name+"' have been executed")
		if err != nil {
			log.Errorf("Failed to emit execution notification for campaign %s: %v", campaignId, err)
		}
	}
	return &result, nil
}

func (e executionServiceImpl) RetryFailedExecutions(campaignId string) (int, error) {
	campaign, err := e.campaignRepository.Get(campaignId)
	if err != nil {
		return 0, err
	}
	if campaign == nil {
		return 0, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.CampaignNotFound,
			Message: exception.CampaignNotFoundMsg,
			Params:  map[string]interface{}{"campaignId": campaignId},
		}
	}
	return e.decisionRepository.ResetFailedExecutions(campaignId)
}

func itemIdOf(resourceType string, resourceId string) string {
	switch resourceType {
	case string(view.ResourceTypeFile), string(view.ResourceTypeFolder):
		return resourceId
	default:
		return ""
	}
}
