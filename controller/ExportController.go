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
	"fmt"
	"net/http"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/service"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
)

type ExportController interface {
	ExportCampaignReport(w http.ResponseWriter, r *http.Request)
}

func NewExportController(exportService service.ExportService) ExportController {
	return &exportControllerImpl{
		exportService: exportService,
	}
}

type exportControllerImpl struct {
	exportService service.ExportService
}

func (e exportControllerImpl) ExportCampaignReport(w http.ResponseWriter, r *http.Request) {
	campaignId := getStringParam(r, "campaignId")
	data, filename, err := e.exportService.BuildCampaignReport(campaignId)
	if err != nil {
		utils.RespondWithError(w, "Failed to export campaign report", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
