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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/context"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

func newCampaignServiceForTest(store *fakeStore, graph *fakeGraphClient) CampaignService {
	itemRepo := &fakeReviewItemRepository{store: store}
	collectionService := NewCollectionService(graph, itemRepo)
	return NewCampaignService(&fakeCampaignRepository{store: store}, itemRepo, collectionService)
}

func financeScope() view.CampaignScope {
	return view.CampaignScope{
		SiteUrls:          []string{"https://contoso.example.com/sites/finance"},
		IncludeDrives:     true,
		IncludeSubfolders: true,
	}
}

func TestCampaignLifecycle(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	seedSite(graph)
	svc := newCampaignServiceForTest(store, graph)
	ctx := context.CreateSystemContext()

	campaign, err := svc.CreateCampaign(ctx, view.CampaignCreateRequest{
		Name:    "Finance Q3",
		Scope:   financeScope(),
		DueDate: time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	assert.Equal(t, view.CampaignStatusDraft, campaign.Status)
	assert.Equal(t, 0, campaign.TotalItems)

	require.NoError(t, svc.StartCampaign(goctx.Background(), campaign.Id))

	started, err := svc.GetCampaign(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, view.CampaignStatusInReview, started.Status)
	assert.Equal(t, 3, started.TotalItems)
	require.NotNil(t, started.StartDate)

	// Completion requires every item decided; with none decided the
	// implicit path refuses and only the explicit one is available.
	completed, err := svc.CompleteIfFullyDecided(campaign.Id)
	require.NoError(t, err)
	assert.False(t, completed)

	require.NoError(t, svc.CompleteCampaign(campaign.Id))
	done, err := svc.GetCampaign(campaign.Id)
	require.NoError(t, err)
	assert.Equal(t, view.CampaignStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	// Completing again is a no-op, not an error.
	require.NoError(t, svc.CompleteCampaign(campaign.Id))
}

func TestStartCampaignRequiresDraft(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	seedSite(graph)
	svc := newCampaignServiceForTest(store, graph)
	ctx := context.CreateSystemContext()

	campaign, err := svc.CreateCampaign(ctx, view.CampaignCreateRequest{
		Name:    "Finance Q3",
		Scope:   financeScope(),
		DueDate: time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	require.NoError(t, svc.StartCampaign(goctx.Background(), campaign.Id))

	err = svc.StartCampaign(goctx.Background(), campaign.Id)
	assert.Error(t, err)
}

func TestUpdateCampaignScopeImmutableAfterStart(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	seedSite(graph)
	svc := newCampaignServiceForTest(store, graph)
	ctx := context.CreateSystemContext()

	campaign, err := svc.CreateCampaign(ctx, view.CampaignCreateRequest{
		Name:    "Finance Q3",
		Scope:   financeScope(),
		DueDate: time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	// In draft the scope is still editable.
	newScope := financeScope()
	newScope.MaxDepth = 2
	_, err = svc.UpdateCampaign(campaign.Id, view.CampaignUpdateRequest{Scope: &newScope})
	require.NoError(t, err)

	require.NoError(t, svc.StartCampaign(goctx.Background(), campaign.Id))

	_, err = svc.UpdateCampaign(campaign.Id, view.CampaignUpdateRequest{Scope: &newScope})
	assert.Error(t, err)

	// Name and due date stay editable after start.
	updated, err := svc.UpdateCampaign(campaign.Id, view.CampaignUpdateRequest{Name: "Finance Q3 (extended)"})
	require.NoError(t, err)
	assert.Equal(t, "Finance Q3 (extended)", updated.Name)
}

func TestDeleteCampaignDraftOnly(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	seedSite(graph)
	svc := newCampaignServiceForTest(store, graph)
	ctx := context.CreateSystemContext()

	campaign, err := svc.CreateCampaign(ctx, view.CampaignCreateRequest{
		Name:    "Finance Q3",
		Scope:   financeScope(),
		DueDate: time.Now().AddDate(0, 0, 14),
	})
	require.NoError(t, err)
	require.NoError(t, svc.StartCampaign(goctx.Background(), campaign.Id))

	err = svc.DeleteCampaign(campaign.Id)
	assert.Error(t, err)

	draft, err := svc.CreateCampaign(ctx, view.CampaignCreateRequest{
		Name:    "Scratch",
		Scope:   financeScope(),
		DueDate: time.Now().AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCampaign(draft.Id))
}

func TestGetProgress(t *testing.T) {
	store := newFakeStore()
	seedCampaignWithItems(store, "c1", 4)
	svc := newCampaignServiceForTest(store, newFakeGraphClient())
	decisionService := newDecisionServiceForTest(store)
	ctx := context.CreateSystemContext()

	_, err := decisionService.SubmitDecision(ctx, "c1-item-0", view.DecisionRequest{Decision: "retain"})
	require.NoError(t, err)
	_, err = decisionService.SubmitDecision(ctx, "c1-item-1", view.DecisionRequest{Decision: "remove"})
	require.NoError(t, err)

	progress, err := svc.GetProgress("c1")
	require.NoError(t, err)
	assert.Equal(t, 4, progress.TotalItems)
	assert.Equal(t, 2, progress.ItemsWithDecisions)
	assert.Equal(t, 2, progress.ItemsNeedingReview)
	assert.Equal(t, 1, progress.RetainedItems)
	assert.Equal(t, 1, progress.RemovedItems)
	assert.Equal(t, 50, progress.ReviewProgress)
}

func TestListCampaignsRejectsUnknownStatus(t *testing.T) {
	svc := newCampaignServiceForTest(newFakeStore(), newFakeGraphClient())
	_, err := svc.ListCampaigns("archived", "", 100, 0)
	assert.Error(t, err)
}

func TestCreateCampaignRejectsInvalidScope(t *testing.T) {
	svc := newCampaignServiceForTest(newFakeStore(), newFakeGraphClient())
	ctx := context.CreateSystemContext()

	_, err := svc.CreateCampaign(ctx, view.CampaignCreateRequest{
		Name:    "Bad scope",
		Scope:   view.CampaignScope{SiteUrls: []string{"/sites/finance"}},
		DueDate: time.Now().AddDate(0, 0, 14),
	})
	assert.Error(t, err)

	_, err = svc.CreateCampaign(ctx, view.CampaignCreateRequest{
		Name: "Duplicate site",
		Scope: view.CampaignScope{SiteUrls: []string{
			"https://contoso.example.com/sites/finance",
			"https://contoso.example.com/sites/finance",
		}},
		DueDate: time.Now().AddDate(0, 0, 14),
	})
	assert.Error(t, err)
}

func TestStartCampaignResumesInterruptedCollection(t *testing.T) {
	store := newFakeStore()
	graph := newFakeGraphClient()
	seedSite(graph)
	svc := newCampaignServiceForTest(store, graph)

	// A crash mid-collection leaves the campaign in collecting with part
	// of the items already persisted.
	store.campaigns["c1"] = &entity.CampaignEntity{
		Id:        "c1",
		Name:      "Interrupted",
		Scope:     financeScope(),
		Status:    string(view.CampaignStatusCollecting),
		DueDate:   time.Now().AddDate(0, 0, 14),
		CreatedAt: time.Now(),
		CreatedBy: "alice",
	}
	store.items["c1-partial"] = &entity.ReviewItemEntity{
		Id:           "c1-partial",
		CampaignId:   "c1",
		ResourceType: string(view.ResourceTypeSite),
		ResourceId:   "site-1",
		PermissionId: "p-site-direct",
		SiteId:       "site-1",
		CreatedAt:    time.Now(),
	}

	require.NoError(t, svc.StartCampaign(goctx.Background(), "c1"))

	campaign, err := svc.GetCampaign("c1")
	require.NoError(t, err)
	assert.Equal(t, view.CampaignStatusInReview, campaign.Status)
	// The second pass filled in the missing items without duplicating the
	// one that survived the crash.
	assert.Equal(t, 3, campaign.TotalItems)
}
