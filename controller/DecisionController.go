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

type DecisionController interface {
	SubmitDecision(w http.ResponseWriter, r *http.Request)
	BulkDecisions(w http.ResponseWriter, r *http.Request)
	RetainAll(w http.ResponseWriter, r *http.Request)
}

func NewDecisionController(decisionService service.DecisionService) DecisionController {
	return &decisionControllerImpl{
		decisionService: decisionService,
	}
}

type decisionControllerImpl struct {
	decisionService service.DecisionService
}

func (d decisionControllerImpl) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	// Item ids embed Graph permission ids and may arrive url-escaped.
	itemId, err := getUnescapedStringParam(r, "itemId")
	if err != nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "itemId"},
			Debug:   err.Error(),
		})
		return
	}
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
	var req view.DecisionRequest
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
	if customError := requireReviewer(ctx); customError != nil {
		utils.RespondWithCustomError(w, customError)
		return
	}
	decision, err := d.decisionService.SubmitDecision(ctx, itemId, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to submit decision", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, decision)
}

func (d decisionControllerImpl) BulkDecisions(w http.ResponseWriter, r *http.Request) {
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
	var req view.BulkDecisionsRequest
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
	if customError := requireReviewer(ctx); customError != nil {
		utils.RespondWithCustomError(w, customError)
		return
	}
	result, err := d.decisionService.BulkDecisions(ctx, campaignId, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to apply decisions", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, result)
}

func (d decisionControllerImpl) RetainAll(w http.ResponseWriter, r *http.Request) {
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
	var req view.RetainAllRequest
	if len(body) > 0 {
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
	}

	ctx := context.Create(r)
	if customError := requireReviewer(ctx); customError != nil {
		utils.RespondWithCustomError(w, customError)
		return
	}
	applied, err := d.decisionService.BulkRetainAll(ctx, campaignId, req.Justification)
	if err != nil {
		utils.RespondWithError(w, "Failed to retain remaining items", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, view.RetainAllResult{Applied: applied})
}
