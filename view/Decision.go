package view

import "time"

type DecisionValue string

const (
	DecisionRetain DecisionValue = "retain"
	DecisionRemove DecisionValue = "remove"
)

func ValidDecisionValue(decision string) bool {
	switch DecisionValue(decision) {
	case DecisionRetain, DecisionRemove:
		return true
	default:
		return false
	}
}

type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

type Decision struct {
	ItemId          string          `json:"itemId"`
	CampaignId      string          `json:"campaignId"`
	Decision        DecisionValue   `json:"decision"`
	Justification   string          `json:"justification,omitempty"`
	ReviewedBy      string          `json:"reviewedBy"`
	DecidedAt       time.Time       `json:"decidedAt"`
	ExecutionStatus ExecutionStatus `json:"executionStatus,omitempty"`
	ExecutionError  string          `json:"executionError,omitempty"`
	ExecutedAt      *time.Time      `json:"executedAt,omitempty"`
}

type DecisionRequest struct {
	Decision      string `json:"decision" validate:"required,oneof=retain remove"`
	Justification string `json:"justification,omitempty" validate:"omitempty,max=2000"`
}

type BulkDecisionItem struct {
	ItemId        string `json:"itemId" validate:"required"`
	Decision      string `json:"decision" validate:"required,oneof=retain remove"`
	Justification string `json:"justification,omitempty" validate:"omitempty,max=2000"`
}

type BulkDecisionsRequest struct {
	Decisions []BulkDecisionItem `json:"decisions" validate:"required,min=1,dive"`
}

type BulkDecisionFailure struct {
	ItemId string `json:"itemId"`
	Error  string `json:"error"`
}

type BulkDecisionsResult struct {
	Applied int                   `json:"applied"`
	Failed  []BulkDecisionFailure `json:"failed,omitempty"`
}

type RetainAllRequest struct {
	Justification string `json:"justification,omitempty" validate:"omitempty,max=2000"`
}

type RetainAllResult struct {
	Applied int `json:"applied"`
}

type ExecutionResult struct {
	CampaignId string `json:"campaignId"`
	Executed   int    `json:"executed"`
	Failed     int    `json:"failed"`
}

type RetryResult struct {
	CampaignId string `json:"campaignId"`
	Reset      int    `json:"reset"`
}
