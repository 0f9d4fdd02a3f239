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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

func seedCampaignWithItems(store *fakeStore, campaignId string, itemCount int) {
	store.campaigns[campaignId] = &entity.CampaignEntity{
		Id:         campaignId,
		Name:       "Quarterly review",
		Status:     string(view.CampaignStatusInReview),
		TotalItems: itemCount,
		DueDate:    time.Now().AddDate(0, 0, 14),
		CreatedAt:  time.Now(),
		CreatedBy:  "alice",
	}
	for i := 0; i < itemCount; i++ {
		id := fmt.Sprintf("%s-item-%d", campaignId, i)
		store.items[id] = &entity.ReviewItemEntity{
			Id:           id,
			CampaignId:   campaignId,
			ResourceType: string(view.ResourceTypeFile),
			ResourceId:   fmt.Sprintf("res-%d", i),
			PermissionId: fmt.Sprintf("perm-%d", i),
			SiteId:       "site-1",
			DriveId:      "drive-1",
			CreatedAt:    time.Now(),
		}
	}
}

func newDecisionServiceForTest(store *fakeStore) DecisionService {
	return NewDecisionService(
		&fakeCampaignRepository{store: store},
		&fakeReviewItemRepository{store: store},
		&fakeDecisionRepository{store: store},
	)
}

func TestSubmitDecisionUpdatesAggregates(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 3)
	svc := newDecisionServiceForTest(store)
	ctx := context.CreateSystemContext()

	decision, err := svc.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "retain", Justification: "still needed"})
	require.NoError(t, err)
	assert.Equal(t, view.DecisionRetain, decision.Decision)
	assert.Equal(t, "c1", decision.CampaignId)

	campaign := store.campaigns["c1"]
	assert.Equal(t, 1, campaign.ReviewedItems)
	assert.Equal(t, 1, campaign.RetainedItems)
	assert.Equal(t, 0, campaign.RemovedItems)
}

func TestSubmitDecisionResubmitReplacesVerdict(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 2)
	svc := newDecisionServiceForTest(store)
	ctx := context.CreateSystemContext()

	_, err := svc.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "retain"})
	require.NoError(t, err)
	_, err = svc.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)

	// One decision row, counted once, under the latest verdict.
	assert.Len(t, store.decisions, 1)
	campaign := store.campaigns["c1"]
	assert.Equal(t, 1, campaign.ReviewedItems)
	assert.Equal(t, 0, campaign.RetainedItems)
	assert.Equal(t, 1, campaign.RemovedItems)
	assert.Equal(t, string(view.ExecutionPending), store.decisions["c1-item-0"].ExecutionStatus)
}

func TestSubmitDecisionUnknownItem(t *testing.T) {
	store := newFakeStore()
	svc := newDecisionServiceForTest(store)

	_, err := svc.SubmitDecision(context.CreateSystemContext(), "missing", view.DecisionRequest{Decision: "retain"})
	assert.Error(t, err)
}

func TestBulkDecisionsPartialFailure(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 2)
	svc := newDecisionServiceForTest(store)

	result, err := svc.BulkDecisions(context.CreateSystemContext(), "c1", view.BulkDecisionsRequest{
		Decisions: []view.BulkDecisionItem{
			{ItemId: "c1-item-0", Decision: "retain"},
			{ItemId: "unknown", Decision: "remove"},
			{ItemId: "c1-item-1", Decision: "remove"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "unknown", result.Failed[0].ItemId)

	campaign := store.campaigns["c1"]
	assert.Equal(t, 2, campaign.ReviewedItems)
	assert.Equal(t, 1, campaign.RetainedItems)
	assert.Equal(t, 1, campaign.RemovedItems)
}

func TestBulkDecisionsRejectsForeignItem(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 1)
	seedCampaignWithItems(store, "c2", 1)
	svc := newDecisionServiceForTest(store)

	result, err := svc.BulkDecisions(context.CreateSystemContext(), "c1", view.BulkDecisionsRequest{
		Decisions: []view.BulkDecisionItem{
			{ItemId: "c2-item-0", Decision: "retain"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	assert.Len(t, result.Failed, 1)
	assert.Empty(t, store.decisions)
}

func TestBulkRetainAllSkipsDecidedItems(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 3)
	svc := newDecisionServiceForTest(store)
	ctx := context.CreateSystemContext()

	_, err := svc.SubmitDecision(ctx, "c1-item-1", view.DecisionRequest{Decision: "remove", Justification: "stale grant"})
	require.NoError(t, err)

	applied, err := svc.BulkRetainAll(ctx, "c1", "period ended")
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	// The explicit removal survives retain-all.
	assert.Equal(t, string(view.DecisionRemove), store.decisions["c1-item-1"].Decision)
	assert.Equal(t, string(view.DecisionRetain), store.decisions["c1-item-0"].Decision)
	assert.Equal(t, string(view.DecisionRetain), store.decisions["c1-item-2"].Decision)

	campaign := store.campaigns["c1"]
	assert.Equal(t, 3, campaign.ReviewedItems)
	assert.Equal(t, 2, campaign.RetainedItems)
	assert.Equal(t, 1, campaign.RemovedItems)
}

func TestRecomputeAggregatesFromScratch(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 4)
	svc := newDecisionServiceForTest(store)
	ctx := context.CreateSystemContext()

	for _, itemId := range []string{"c1-item-0", "c1-item-1", "c1-item-2"} {
		_, err := svc.SubmitDecision(ctx, itemId, view.DecisionRequest{Decision: "retain"})
		require.NoError(t, err)
	}

	// Corrupt the stored counters, recompute must restore them from the
	// decisions table.
	store.campaigns["c1"].ReviewedItems = 99
	require.NoError(t, svc.RecomputeAggregates("c1"))
	assert.Equal(t, 3, store.campaigns["c1"].ReviewedItems)
	assert.Equal(t, 3, store.campaigns["c1"].RetainedItems)
}

func TestSubmitDecisionRejectsUnknownVerdict(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 1)
	svc := newDecisionServiceForTest(store)
	ctx := context.CreateSystemContext()

	_, err := svc.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "revoke"})
	assert.Error(t, err)

	result, err := svc.BulkDecisions(ctx, "c1", view.BulkDecisionsRequest{
		Decisions: []view.BulkDecisionItem{{ItemId: "c1-item-0", Decision: "revoke"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Applied)
	require.Len(t, result.Failed, 1)
}

func TestResubmitRemoveKeepsCompletedExecution(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 1)
	svc := newDecisionServiceForTest(store)
	ctx := context.CreateSystemContext()

	_, err := svc.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)

	// The removal ran and the permission is gone.
	executedAt := time.Now().Add(-time.Hour)
	store.decisions["c1-item-0"].ExecutionStatus = string(view.ExecutionCompleted)
	store.decisions["c1-item-0"].ExecutedAt = executedAt

	// Submitting remove again must not re-queue the deletion.
	decision, err := svc.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "remove", Justification: "still unjustified access"})
	require.NoError(t, err)
	assert.Equal(t, string(view.ExecutionCompleted), store.decisions["c1-item-0"].ExecutionStatus)
	assert.Equal(t, executedAt, store.decisions["c1-item-0"].ExecutedAt)
	assert.Equal(t, view.ExecutionCompleted, decision.ExecutionStatus)
	assert.Equal(t, "still unjustified access", decision.Justification)

	// Flipping to retain clears the execution record.
	_, err = svc.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "retain"})
	require.NoError(t, err)
	assert.Empty(t, store.decisions["c1-item-0"].ExecutionStatus)
	assert.True(t, store.decisions["c1-item-0"].ExecutedAt.IsZero())
}
