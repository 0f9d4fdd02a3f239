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
	goctx "context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type CampaignService interface {
	CreateCampaign(ctx context.SecurityContext, req view.CampaignCreateRequest) (*view.Campaign, error)
	GetCampaign(campaignId string) (*view.Campaign, error)
	ListCampaigns(status string, textFilter string, limit int, page int) (*view.Campaigns, error)
	UpdateCampaign(campaignId string, req view.CampaignUpdateRequest) (*view.Campaign, error)
	DeleteCampaign(campaignId string) error
	GetProgress(campaignId string) (*view.CampaignProgress, error)
	ListItems(campaignId string) (*view.ReviewItems, error)

	// StartCampaign moves draft -> collecting, runs collection over the
	// campaign scope and finishes in in_review with totalItems set.
	// Per-site failures are soft: logged and skipped.
	StartCampaign(ctx goctx.Context, campaignId string) error
	// CompleteCampaign is the explicit forward transition to completed.
	CompleteCampaign(campaignId string) error
	// CompleteIfFullyDecided performs the implicit completion: the campaign
	// completes once no review item lacks a decision.
	CompleteIfFullyDecided(campaignId string) (bool, error)
}

func NewCampaignService(
	campaignRepository repository.CampaignRepository,
	reviewItemRepository repository.ReviewItemRepository,
	collectionService CollectionService) CampaignService {
	return &campaignServiceImpl{
		campaignRepository:   campaignRepository,
		reviewItemRepository: reviewItemRepository,
		collectionService:    collectionService,
	}
}

type campaignServiceImpl struct {
	campaignRepository   repository.CampaignRepository
	reviewItemRepository repository.ReviewItemRepository
	collectionService    CollectionService
}

func validateScope(scope view.CampaignScope) error {
	seen := map[string]bool{}
	for _, siteUrl := range scope.SiteUrls {
		parsed, err := url.Parse(siteUrl)
		if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.InvalidScope,
				Message: exception.InvalidScopeMsg,
				Params:  map[string]interface{}{"error": "site url '" + siteUrl + "' is not an absolute http(s) url"},
			}
		}
		if seen[siteUrl] {
			return &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.InvalidScope,
				Message: exception.InvalidScopeMsg,
				Params:  map[string]interface{}{"error": "site url '" + siteUrl + "' is listed twice"},
			}
		}
		seen[siteUrl] = true
	}
	return nil
}

func (c campaignServiceImpl) CreateCampaign(ctx context.SecurityContext, req view.CampaignCreateRequest) (*view.Campaign, error) {
	if err := validateScope(req.Scope); err != nil {
		return nil, err
	}
	ent := &entity.CampaignEntity{
		Id:        uuid.New().String(),
		Name:      req.Name,
		Scope:     req.Scope,
		Status:    string(view.CampaignStatusDraft),
		DueDate:   req.DueDate,
		CreatedAt: time.Now(),
		CreatedBy: ctx.GetUserId(),
	}
	if err := c.campaignRepository.Create(ent); err != nil {
		return nil, err
	}
	result := entity.MakeCampaignView(*ent)
	return &result, nil
}

func (c campaignServiceImpl) GetCampaign(campaignId string) (*view.Campaign, error) {
	ent, err := c.getCampaignEntity(campaignId)
	if err != nil {
		return nil, err
	}
	result := entity.MakeCampaignView(*ent)
	return &result, nil
}

func (c campaignServiceImpl) ListCampaigns(status string, textFilter string, limit int, page int) (*view.Campaigns, error) {
	if status != "" && !view.ValidCampaignStatus(status) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidParameterValue,
			Message: exception.InvalidParameterValueMsg,
			Params:  map[string]interface{}{"param": "status", "value": status},
		}
	}
	ents, err := c.campaignRepository.List(status, textFilter, limit, page)
	if err != nil {
		return nil, err
	}
	campaigns := make([]view.Campaign, 0, len(ents))
	for _, ent := range ents {
		campaigns = append(campaigns, entity.MakeCampaignView(ent))
	}
	return &view.Campaigns{Campaigns: campaigns}, nil
}

func (c campaignServiceImpl) UpdateCampaign(campaignId string, req view.CampaignUpdateRequest) (*view.Campaign, error) {
	ent, err := c.getCampaignEntity(campaignId)
	if err != nil {
		return nil, err
	}
	if req.Scope != nil {
		// Scope edits after collection started would orphan already
		// collected items, so they are allowed in draft only.
		if ent.Status != string(view.CampaignStatusDraft) {
			return nil, &exception.CustomError{
				Status:  http.StatusConflict,
				Code:    exception.CampaignScopeImmutable,
				Message: exception.CampaignScopeImmutableMsg,
				Params:  map[string]interface{}{"campaignId": campaignId},
			}
		}
		if err := validateScope(*req.Scope); err != nil {
			return nil, err
		}
		ent.Scope = *req.Scope
	}
	if req.Name != "" {
		ent.Name = req.Name
	}
	if req.DueDate != nil {
		ent.DueDate = *req.DueDate
	}
	if err := c.campaignRepository.Update(ent); err != nil {
		return nil, err
	}
	result := entity.MakeCampaignView(*ent)
	return &result, nil
}

func (c campaignServiceImpl) DeleteCampaign(campaignId string) error {
	ent, err := c.getCampaignEntity(campaignId)
	if err != nil {
		return err
	}
	if ent.Status != string(view.CampaignStatusDraft) {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.CampaignNotDeletable,
			Message: exception.CampaignNotDeletableMsg,
			Params:  map[string]interface{}{"campaignId": campaignId},
		}
	}
	return c.campaignRepository.Delete(campaignId)
}

func (c campaignServiceImpl) GetProgress(campaignId string) (*view.CampaignProgress, error) {
	ent, err := c.getCampaignEntity(campaignId)
	if err != nil {
		return nil, err
	}
	progress := view.CampaignProgress{
		CampaignId:         ent.Id,
		TotalItems:         ent.TotalItems,
		ItemsWithDecisions: ent.ReviewedItems,
		ItemsNeedingReview: ent.TotalItems - ent.ReviewedItems,
		RetainedItems:      ent.RetainedItems,
		RemovedItems:       ent.RemovedItems,
	}
	if ent.TotalItems > 0 {
		progress.ReviewProgress = ent.ReviewedItems * 100 / ent.TotalItems
	}
	return &progress, nil
}

func (c campaignServiceImpl) ListItems(campaignId string) (*view.ReviewItems, error) {
	if _, err := c.getCampaignEntity(campaignId); err != nil {
		return nil, err
	}
	ents, err := c.reviewItemRepository.List(campaignId)
	if err != nil {
		return nil, err
	}
	items := make([]view.ReviewItem, 0, len(ents))
	for _, ent := range ents {
		items = append(items, entity.MakeReviewItemView(ent))
	}
	return &view.ReviewItems{ReviewItems: items}, nil
}

func (c campaignServiceImpl) StartCampaign(ctx goctx.Context, campaignId string) error {
	ent, err := c.getCampaignEntity(campaignId)
	if err != nil {
		return err
	}
	// A campaign stranded in collecting (crash or a failed site walk) is
	// restartable: the idempotent item insert makes a second pass safe.
	if ent.Status != string(view.CampaignStatusDraft) && ent.Status != string(view.CampaignStatusCollecting) {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.InvalidCampaignStatus,
			Message: exception.InvalidCampaignStatusMsg,
			Params:  map[string]interface{}{"campaignId": campaignId, "required": view.CampaignStatusDraft, "status": ent.Status},
		}
	}

	if ent.Status != string(view.CampaignStatusCollecting) {
		ent.Status = string(view.CampaignStatusCollecting)
		if err := c.campaignRepository.Update(ent); err != nil {
			return err
		}
	}

	if err := c.collectionService.CollectCampaignItems(ctx, ent.Id, ent.Scope); err != nil {
		// Collection is resumable: the campaign stays in collecting and a
		// restart picks up where it left off thanks to the idempotent insert.
		return err
	}

	totalItems, err := c.reviewItemRepository.CountByCampaign(campaignId)
	if err != nil {
		return err
	}

	ent.TotalItems = totalItems
	ent.StartDate = time.Now()
	ent.Status = string(view.CampaignStatusInReview)
	if err := c.campaignRepository.Update(ent); err != nil {
		return err
	}
	log.Infof("Campaign %s moved to review with %d items", campaignId, totalItems)
	return nil
}

func (c campaignServiceImpl) CompleteCampaign(campaignId string) error {
	ent, err := c.getCampaignEntity(campaignId)
	if err != nil {
		return err
	}
	if ent.Status == string(view.CampaignStatusCompleted) {
		return nil
	}
	if ent.Status != string(view.CampaignStatusInReview) {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.InvalidCampaignStatus,
			Message: exception.InvalidCampaignStatusMsg,
			Params:  map[string]interface{}{"campaignId": campaignId, "required": view.CampaignStatusInReview, "status": ent.Status},
		}
	}
	ent.Status = string(view.CampaignStatusCompleted)
	ent.CompletedAt = time.Now()
	return c.campaignRepository.Update(ent)
}

func (c campaignServiceImpl) CompleteIfFullyDecided(campaignId string) (bool, error) {
	ent, err := c.getCampaignEntity(campaignId)
	if err != nil {
		return false, err
	}
	if ent.Status != string(view.CampaignStatusInReview) {
		return false, nil
	}
	undecided, err := c.reviewItemRepository.CountUndecided(campaignId)
	if err != nil {
		return false, err
	}
	if undecided > 0 {
		return false, nil
	}
	ent.Status = string(view.CampaignStatusCompleted)
	ent.CompletedAt = time.Now()
	if err := c.campaignRepository.Update(ent); err != nil {
		return false, err
	}
	log.Infof("Campaign %s completed, all items decided", campaignId)
	return true, nil
}

func (c campaignServiceImpl) getCampaignEntity(campaignId string) (*entity.CampaignEntity, error) {
	ent, err := c.campaignRepository.Get(campaignId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.CampaignNotFound,
			Message: exception.CampaignNotFoundMsg,
			Params:  map[string]interface{}{"campaignId": campaignId},
		}
	}
	return ent, nil
}
