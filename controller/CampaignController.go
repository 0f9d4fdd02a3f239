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
	goctx "context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/service"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type CampaignController interface {
	CreateCampaign(w http.ResponseWriter, r *http.Request)
	GetCampaign(w http.ResponseWriter, r *http.Request)
	ListCampaigns(w http.ResponseWriter, r *http.Request)
	UpdateCampaign(w http.ResponseWriter, r *http.Request)
	DeleteCampaign(w http.ResponseWriter, r *http.Request)
	StartCampaign(w http.ResponseWriter, r *http.Request)
	CompleteCampaign(w http.ResponseWriter, r *http.Request)
	GetProgress(w http.ResponseWriter, r *http.Request)
	ListItems(w http.ResponseWriter, r *http.Request)
}

func NewCampaignController(campaignService service.CampaignService) CampaignController {
	return &campaignControllerImpl{
		campaignService: campaignService,
	}
}

type campaignControllerImpl struct {
	campaignService service.CampaignService
}

func (c campaignControllerImpl) CreateCampaign(w http.ResponseWriter, r *http.Request) {
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
	var req view.CampaignCreateRequest
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
	campaign, err := c.campaignService.CreateCampaign(ctx, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to create campaign", err)
		return
	}
	utils.RespondWithJson(w, http.StatusCreated, campaign)
}

func (c campaignControllerImpl) GetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	campaign, err := c.campaignService.GetCampaign(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to get campaign", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, campaign)
}

func (c campaignControllerImpl) ListCampaigns(w http.ResponseWriter, r *http.Request) {
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
	status := r.URL.Query().Get("status")
	textFilter := r.URL.Query().Get("textFilter")

	campaigns, err := c.campaignService.ListCampaigns(status, textFilter, limit, page)
	if err != nil {
		utils.RespondWithError(w, "Failed to list campaigns", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, campaigns)
}

func (c campaignControllerImpl) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
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
	var req view.CampaignUpdateRequest
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

	campaign, err := c.campaignService.UpdateCampaign(campaignId, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to update campaign", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, campaign)
}

func (c campaignControllerImpl) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	err := c.campaignService.DeleteCampaign(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to delete campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c campaignControllerImpl) StartCampaign(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	// Only the status check is synchronous, collection itself can take a
	// while and runs in the background. A collecting campaign may be
	// started again to resume an interrupted collection.
	campaign, err := c.campaignService.GetCampaign(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to start campaign", err)
		return
	}
	if campaign.Status != view.CampaignStatusDraft && campaign.Status != view.CampaignStatusCollecting {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.InvalidCampaignStatus,
			Message: exception.InvalidCampaignStatusMsg,
			Params:  map[string]interface{}{"campaignId": campaignId, "required": view.CampaignStatusDraft, "status": campaign.Status},
		})
		return
	}
	utils.SafeAsync(func() {
		if err := c.campaignService.StartCampaign(goctx.Background(), campaignId); err != nil {
			log.Errorf("Failed to run collection for campaign %s: %v", campaignId, err)
		}
	})
	w.WriteHeader(http.StatusAccepted)
}

func (c campaignControllerImpl) CompleteCampaign(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	err := c.campaignService.CompleteCampaign(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to complete campaign", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c campaignControllerImpl) GetProgress(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	progress, err := c.campaignService.GetProgress(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to get campaign progress", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, progress)
}

func (c campaignControllerImpl) ListItems(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	items, err := c.campaignService.ListItems(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to list review items", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, items)
}
