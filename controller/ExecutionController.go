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
	"net/http"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/service"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

type ExecutionController interface {
	ExecuteCampaign(w http.ResponseWriter, r *http.Request)
	RetryFailedExecutions(w http.ResponseWriter, r *http.Request)
}

func NewExecutionController(executionService service.ExecutionService) ExecutionController {
	return &executionControllerImpl{
		executionService: executionService,
	}
}

type executionControllerImpl struct {
	executionService service.ExecutionService
}

func (e executionControllerImpl) ExecuteCampaign(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	result, err := e.executionService.ExecuteCampaign(goctx.Background(), campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to execute campaign removals", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (e executionControllerImpl) RetryFailedExecutions(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	reset, err := e.executionService.RetryFailedExecutions(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to reset failed executions", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, view.RetryResult{CampaignId: campaignId, Reset: reset})
}
