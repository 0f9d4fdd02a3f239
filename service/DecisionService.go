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

	log "github.com/sirupsen/logrus"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

// DecisionService is the idempotent decision ledger. Every mutation ends
// with a full recount of the campaign's decisions; the counters on the
// campaign are derived state and are never incremented in place, which is
// what keeps concurrent submissions consistent without locking.
type DecisionService interface {
	SubmitDecision(ctx context.SecurityContext, itemId string, req view.DecisionRequest) (*view.Decision, error)
	BulkDecisions(ctx context.SecurityContext, campaignId string, req view.BulkDecisionsRequest) (*view.BulkDecisionsResult, error)
	// BulkRetainAll decides `retain` for every item of the campaign that has
	// no decision yet. Explicit decisions are never overwritten.
	BulkRetainAll(ctx context.SecurityContext, campaignId string, justification string) (int, error)
	RecomputeAggregates(campaignId string) error
}

func NewDecisionService(
	campaignRepository repository.CampaignRepository,
	reviewItemRepository repository.ReviewItemRepository,
	decisionRepository repository.DecisionRepository) DecisionService {
	return &decisionServiceImpl{
		campaignRepository:   campaignRepository,
		reviewItemRepository: reviewItemRepository,
		decisionRepository:   decisionRepository,
	}
}

type decisionServiceImpl struct {
	campaignRepository   repository.CampaignRepository
	reviewItemRepository repository.ReviewItemRepository
	decisionRepository   repository.DecisionRepository
}

func (d decisionServiceImpl) SubmitDecision(ctx context.SecurityContext, itemId string, req view.DecisionRequest) (*view.Decision, error) {
	item, err := d.reviewItemRepository.Get(itemId)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.ReviewItemNotFound,
			Message: exception.ReviewItemNotFoundMsg,
			Params:  map[string]interface{}{"itemId": itemId},
		}
	}
	if !view.ValidDecisionValue(req.Decision) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidDecisionValue,
			Message: exception.InvalidDecisionValueMsg,
			Params:  map[string]interface{}{"decision": req.Decision},
		}
	}

	ent := makeDecisionEntity(item, req.Decision, req.Justification, ctx.GetUserId())
	if err := d.decisionRepository.Upsert(ent); err != nil {
		return nil, err
	}
	if err := d.RecomputeAggregates(item.CampaignId); err != nil {
		return nil, err
	}
	// Re-read the row, the upsert may have kept an existing execution record.
	stored, err := d.decisionRepository.Get(itemId)
	if err != nil {
		return nil, err
	}
	result := entity.MakeDecisionView(*stored)
	return &result, nil
}

func (d decisionServiceImpl) BulkDecisions(ctx context.SecurityContext, campaignId string, req view.BulkDecisionsRequest) (*view.BulkDecisionsResult, error) {
	result := view.BulkDecisionsResult{}
	affectedCampaigns := map[string]bool{}
	for _, decision := range req.Decisions {
		var item *entity.ReviewItemEntity
		var err error
		if !view.ValidDecisionValue(decision.Decision) {
			err = &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.InvalidDecisionValue,
				Message: exception.InvalidDecisionValueMsg,
				Params:  map[string]interface{}{"decision": decision.Decision},
			}
		}
		if err == nil {
			item, err = d.reviewItemRepository.Get(decision.ItemId)
		}
		if err == nil && item == nil {
			err = &exception.CustomError{
				Status:  http.StatusNotFound,
				Code:    exception.ReviewItemNotFound,
				Message: exception.ReviewItemNotFoundMsg,
				Params:  map[string]interface{}{"itemId": decision.ItemId},
			}
		}
		if err == nil && campaignId != "" && item.CampaignId != campaignId {
			err = &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.InvalidParameterValue,
				Message: exception.InvalidParameterValueMsg,
				Params:  map[string]interface{}{"param": "itemId", "value": decision.ItemId},
			}
		}
		if err == nil {
			err = d.decisionRepository.Upsert(makeDecisionEntity(item, decision.Decision, decision.Justification, ctx.GetUserId()))
		}
		if err != nil {
			// One bad item does not abort the batch.
			log.Warnf("Bulk decision for item %s failed: %v", decision.ItemId, err)
			result.Failed = append(result.Failed, view.BulkDecisionFailure{ItemId: decision.ItemId, Error: err.Error()})
			continue
		}
		result.Applied++
		affectedCampaigns[item.CampaignId] = true
	}
	// Aggregates are recomputed once per affected campaign, not per item.
	for affected := range affectedCampaigns {
		if err := d.RecomputeAggregates(affected); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

func (d decisionServiceImpl) BulkRetainAll(ctx context.SecurityContext, campaignId string, justification string) (int, error) {
	undecided, err := d.reviewItemRepository.ListUndecided(campaignId)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, item := range undecided {
		item := item
		ent := makeDecisionEntity(&item, string(view.DecisionRetain), justification, ctx.GetUserId())
		if err := d.decisionRepository.Upsert(ent); err != nil {
			log.Warnf("Retain-all for item %s failed: %v", item.Id, err)
			continue
		}
		applied++
	}
	if err := d.RecomputeAggregates(campaignId); err != nil {
		return applied, err
	}
	return applied, nil
}

func (d decisionServiceImpl) RecomputeAggregates(campaignId string) error {
	counts, err := d.decisionRepository.CountsByCampaign(campaignId)
	if err != nil {
		return err
	}
	return d.campaignRepository.UpdateAggregates(campaignId, counts.Reviewed, counts.Retained, counts.Removed)
}

func makeDecisionEntity(item *entity.ReviewItemEntity, decision string, justification string, reviewer string) *entity.DecisionEntity {
	ent := &entity.DecisionEntity{
		ItemId:        item.Id,
		CampaignId:    item.CampaignId,
		Decision:      decision,
		Justification: justification,
		ReviewedBy:    reviewer,
		DecidedAt:     time.Now(),
	}
	if decision == string(view.DecisionRemove) {
		ent.ExecutionStatus = string(view.ExecutionPending)
	}
	return ent
}
