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
	goctx "context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

func newExecutionServiceForTest(store *fakeStore, graph *fakeGraphClient) (ExecutionService, DecisionService) {
	campaignRepo := &fakeCampaignRepository{store: store}
	itemRepo := &fakeReviewItemRepository{store: store}
	decisionRepo := &fakeDecisionRepository{store: store}
	collectionService := NewCollectionService(graph, itemRepo)
	campaignService := NewCampaignService(campaignRepo, itemRepo, collectionService)
	notificationService := NewNotificationService(&fakeNotificationRepository{store: store})
	decisionService := NewDecisionService(campaignRepo, itemRepo, decisionRepo)
	executionService := NewExecutionService(graph, campaignRepo, itemRepo, decisionRepo, campaignService, notificationService)
	return executionService, decisionService
}

func TestExecuteCampaignRemovesApprovedPermissions(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	seedCampaignWithItems(store, "c1", 3)
	executionService, decisionService := newExecutionServiceForTest(store, graph)
	ctx := context.CreateSystemContext()

	_, err := decisionService.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)
	_, err = decisionService.SubmitDecision(ctx, "c1-item-1", view.DecisionRequest{Decision: "retain"})
	require.NoError(t, err)
	_, err = decisionService.SubmitDecision(ctx, "c1-item-2", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)

	result, err := executionService.ExecuteCampaign(goctx.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Executed)
	assert.Equal(t, 0, result.Failed)
	assert.ElementsMatch(t, []string{"perm-0", "perm-2"}, graph.deleted)

	assert.Equal(t, string(view.ExecutionCompleted), store.decisions["c1-item-0"].ExecutionStatus)
	assert.False(t, store.decisions["c1-item-0"].ExecutedAt.IsZero())
	// Retain decisions carry no execution state.
	assert.Empty(t, store.decisions["c1-item-1"].ExecutionStatus)

	// Fully decided, so execution completes the campaign.
	assert.Equal(t, string(view.CampaignStatusCompleted), store.campaigns["c1"].Status)
}

func TestExecuteCampaignPartialFailure(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	graph.deleteErrs["perm-1"] = errors.New("permission is locked")
	seedCampaignWithItems(store, "c1", 2)
	executionService, decisionService := newExecutionServiceForTest(store, graph)
	ctx := context.CreateSystemContext()

	_, err := decisionService.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)
	_, err = decisionService.SubmitDecision(ctx, "c1-item-1", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)

	result, err := executionService.ExecuteCampaign(goctx.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, 1, result.Failed)

	failed := store.decisions["c1-item-1"]
	assert.Equal(t, string(view.ExecutionFailed), failed.ExecutionStatus)
	assert.Contains(t, failed.ExecutionError, "permission is locked")
	// A failed removal never blocks the others.
	assert.Equal(t, string(view.ExecutionCompleted), store.decisions["c1-item-0"].ExecutionStatus)
}

func TestExecuteCampaignIsResumable(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	graph.deleteErrs["perm-0"] = errors.New("throttled")
	seedCampaignWithItems(store, "c1", 1)
	executionService, decisionService := newExecutionServiceForTest(store, graph)
	ctx := context.CreateSystemContext()

	_, err := decisionService.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)

	result, err := executionService.ExecuteCampaign(goctx.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	// After the transient failure clears, retry resets the ledger and a
	// second execution finishes the job.
	delete(graph.deleteErrs, "perm-0")
	reset, err := executionService.RetryFailedExecutions("c1")
	require.NoError(t, err)
	assert.Equal(t, 1, reset)

	result, err = executionService.ExecuteCampaign(goctx.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Executed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []string{"perm-0"}, graph.deleted)
}

func TestExecuteCampaignUnknownCampaign(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	executionService, _ := newExecutionServiceForTest(store, graph)

	_, err := executionService.ExecuteCampaign(goctx.Background(), "missing")
	assert.Error(t, err)
}

func TestExecuteCampaignNothingPending(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	seedCampaignWithItems(store, "c1", 1)
	executionService, decisionService := newExecutionServiceForTest(store, graph)

	_, err := decisionService.SubmitDecision(context.CreateSystemContext(), "c1-item-0", view.DecisionRequest{Decision: "retain"})
	require.NoError(t, err)

	result, err := executionService.ExecuteCampaign(goctx.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Executed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, graph.deleted)
	// Still implicitly completed: every item has a verdict and nothing is
	// left pending.
	assert.Equal(t, string(view.CampaignStatusCompleted), store.campaigns["c1"].Status)
}
