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
)

type SchedulerController interface {
	RunTick(w http.ResponseWriter, r *http.Request)
	RunPhase(w http.ResponseWriter, r *http.Request)
}

func NewSchedulerController(schedulerService service.SchedulerService) SchedulerController {
	return &schedulerControllerImpl{
		schedulerService: schedulerService,
	}
}

type schedulerControllerImpl struct {
	schedulerService service.SchedulerService
}

func (s schedulerControllerImpl) RunTick(w http.ResponseWriter, r *http.Request) {
	err := s.schedulerService.RunTick(goctx.Background())
	if err != nil {
		utils.RespondWithError(w, "Failed to run scheduler tick", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s schedulerControllerImpl) RunPhase(w http.ResponseWriter, r *http.Request) {
	phase := getStringParam(r, "phase")
	err := s.schedulerService.RunPhase(goctx.Background(), phase)
	if err != nil {
		utils.RespondWithError(w, "Failed to run scheduler phase", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
