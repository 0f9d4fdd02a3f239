package view

import "time"

type CampaignStatus string

const (
	CampaignStatusDraft      CampaignStatus = "draft"
	CampaignStatusCollecting CampaignStatus = "collecting"
	CampaignStatusInReview   CampaignStatus = "in_review"
	CampaignStatusCompleted  CampaignStatus = "completed"
)

func ValidCampaignStatus(status string) bool {
	switch CampaignStatus(status) {
	case CampaignStatusDraft, CampaignStatusCollecting, CampaignStatusInReview, CampaignStatusCompleted:
		return true
	default:
		return false
	}
}

// CampaignScope is the target resource set eligible for collection.
// It is validated at the API boundary and immutable once collection has started.
type CampaignScope struct {
	SiteUrls          []string `json:"siteUrls" validate:"required,min=1,dive,required"`
	MaxDepth          int      `json:"maxDepth" validate:"gte=0,lte=20"`
	IncludeDrives     bool     `json:"includeDrives"`
	IncludeSubfolders bool     `json:"includeSubfolders"`
}

type Campaign struct {
	Id                string         `json:"id"`
	Name              string         `json:"name"`
	Scope             CampaignScope  `json:"scope"`
	Status            CampaignStatus `json:"status"`
	TotalItems        int            `json:"totalItems"`
	ReviewedItems     int            `json:"reviewedItems"`
	RetainedItems     int            `json:"retainedItems"`
	RemovedItems      int            `json:"removedItems"`
	DueDate           time.Time      `json:"dueDate"`
	StartDate         *time.Time     `json:"startDate,omitempty"`
	CompletedAt       *time.Time     `json:"completedAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	CreatedBy         string         `json:"createdBy"`
	ScheduledReviewId string         `json:"scheduledReviewId,omitempty"`
}

type Campaigns struct {
	Campaigns []Campaign `json:"campaigns"`
}

type CampaignCreateRequest struct {
	Name    string        `json:"name" validate:"required,max=255"`
	Scope   CampaignScope `json:"scope" validate:"required"`
	DueDate time.Time     `json:"dueDate" validate:"required"`
}

type CampaignUpdateRequest struct {
	Name    string         `json:"name,omitempty" validate:"omitempty,max=255"`
	Scope   *CampaignScope `json:"scope,omitempty"`
	DueDate *time.Time     `json:"dueDate,omitempty"`
}

type CampaignProgress struct {
	CampaignId         string `json:"campaignId"`
	TotalItems         int    `json:"totalItems"`
	ItemsWithDecisions int    `json:"itemsWithDecisions"`
	ItemsNeedingReview int    `json:"itemsNeedingReview"`
	RetainedItems      int    `json:"retainedItems"`
	RemovedItems       int    `json:"removedItems"`
	ReviewProgress     int    `json:"reviewProgress"` // percent, 0..100
}
