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
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/exception"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
)

type ExportService interface {
	// BuildCampaignReport renders the decision ledger of a campaign as an
	// xlsx workbook and returns the content with a suggested file name.
	BuildCampaignReport(campaignId string) ([]byte, string, error)
}

func NewExportService(
	campaignRepository repository.CampaignRepository,
	reviewItemRepository repository.ReviewItemRepository) ExportService {
	return &exportServiceImpl{
		campaignRepository:   campaignRepository,
		reviewItemRepository: reviewItemRepository,
	}
}

type exportServiceImpl struct {
	campaignRepository   repository.CampaignRepository
	reviewItemRepository repository.ReviewItemRepository
}

var reportColumns = []string{"Resource", "Path", "Site", "Granted To", "Access Level", "Origin", "Decision", "Justification", "Reviewed By", "Execution Status"}

func (e exportServiceImpl) BuildCampaignReport(campaignId string) ([]byte, string, error) {
	campaign, err := e.campaignRepository.Get(campaignId)
	if err != nil {
		return nil, "", err
	}
	if campaign == nil {
		return nil, "", &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.CampaignNotFound,
			Message: exception.CampaignNotFoundMsg,
			Params:  map[string]interface{}{"campaignId": campaignId},
		}
	}
	items, err := e.reviewItemRepository.List(campaignId)
	if err != nil {
		return nil, "", err
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	for i, column := range reportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, column)
	}
	for row, item := range items {
		values := makeReportRow(item)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, "", &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.ExportFailed,
			Message: exception.ExportFailedMsg,
			Params:  map[string]interface{}{"campaignId": campaignId},
			Debug:   err.Error(),
		}
	}
	fileName := fmt.Sprintf("access-review-%s.xlsx", campaign.Id)
	return buffer.Bytes(), fileName, nil
}

func makeReportRow(item entity.ReviewItemEntity) []interface{} {
	decision, justification, reviewedBy, executionStatus := "", "", "", ""
	if item.Decision != nil {
		decision = item.Decision.Decision
		justification = item.Decision.Justification
		reviewedBy = item.Decision.ReviewedBy
		executionStatus = item.Decision.ExecutionStatus
	}
	return []interface{}{
		item.ResourceName,
		item.ResourcePath,
		item.SiteUrl,
		item.GrantedTo,
		item.AccessLevel,
		item.PermissionOrigin,
		decision,
		justification,
		reviewedBy,
		executionStatus,
	}
}
