package exception

import (
	"fmt"
	"strings"
)

type CustomError struct {
	Status  int                    `json:"status"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Debug   string                 `json:"debug,omitempty"`
}

func (c CustomError) Error() string {
	msg := c.Message
	for k, v := range c.Params {
		msg = strings.ReplaceAll(msg, "$"+k, fmt.Sprintf("%v", v))
	}
	if c.Debug != "" {
		return msg + " | " + c.Debug
	} else {
		return msg
	}
}

const BadRequestBody = "10"
const BadRequestBodyMsg = "Failed to decode body"

const InvalidParameter = "11"
const InvalidParameterMsg = "Parameter $param is invalid"

const InvalidParameterValue = "12"
const InvalidParameterValueMsg = "Value '$value' is not allowed for parameter $param"

const InvalidURLEscape = "13"
const InvalidURLEscapeMsg = "Failed to unescape parameter $param"

const EmptyParameter = "14"
const EmptyParameterMsg = "Parameter $param should not be empty"

const CampaignNotFound = "100"
const CampaignNotFoundMsg = "Campaign with id = $campaignId not found"

const InvalidCampaignStatus = "101"
const InvalidCampaignStatusMsg = "Operation requires campaign status '$required', but campaign $campaignId has status '$status'"

const InvalidScope = "102"
const InvalidScopeMsg = "Campaign scope is invalid: $error"

const CampaignScopeImmutable = "103"
const CampaignScopeImmutableMsg = "Scope of campaign $campaignId can not be changed after collection has started"

const CampaignNotDeletable = "104"
const CampaignNotDeletableMsg = "Campaign $campaignId can only be deleted in draft status"

const ReviewItemNotFound = "110"
const ReviewItemNotFoundMsg = "Review item with id = $itemId not found"

const InvalidDecisionValue = "111"
const InvalidDecisionValueMsg = "Decision value '$decision' is not valid, expected 'retain' or 'remove'"

const ScheduledReviewNotFound = "120"
const ScheduledReviewNotFoundMsg = "Scheduled review with id = $scheduleId not found"

const InvalidRecurrence = "121"
const InvalidRecurrenceMsg = "Recurrence configuration is invalid: $error"

const NotificationNotFound = "130"
const NotificationNotFoundMsg = "Notification with id = $notificationId not found"

const UnknownSchedulerPhase = "140"
const UnknownSchedulerPhaseMsg = "Unknown scheduler phase '$phase'"

const ExportFailed = "150"
const ExportFailedMsg = "Failed to build report for campaign $campaignId"
