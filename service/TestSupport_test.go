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
	"fmt"
	"sort"
	"time"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/client"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

// fakeStore is a shared in-memory backing for the repository fakes so that
// cross-table behavior (undecided items, derived counters) works like the
// real schema.
type fakeStore struct {
	campaigns     map[string]*entity.CampaignEntity
	items         map[string]*entity.ReviewItemEntity
	decisions     map[string]*entity.DecisionEntity
	schedules     map[string]*entity.ScheduledReviewEntity
	notifications []*entity.NotificationEntity
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		campaigns: map[string]*entity.CampaignEntity{},
		items:     map[string]*entity.ReviewItemEntity{},
		decisions: map[string]*entity.DecisionEntity{},
		schedules: map[string]*entity.ScheduledReviewEntity{},
	}
}

type fakeCampaignRepository struct {
	store *fakeStore
}

func (r *fakeCampaignRepository) Create(ent *entity.CampaignEntity) error {
	copied := *ent
	r.store.campaigns[ent.Id] = &copied
	return nil
}

func (r *fakeCampaignRepository) Get(id string) (*entity.CampaignEntity, error) {
	ent, ok := r.store.campaigns[id]
	if !ok {
		return nil, nil
	}
	copied := *ent
	return &copied, nil
}

func (r *fakeCampaignRepository) Update(ent *entity.CampaignEntity) error {
	copied := *ent
	r.store.campaigns[ent.Id] = &copied
	return nil
}

func (r *fakeCampaignRepository) Delete(id string) error {
	delete(r.store.campaigns, id)
	return nil
}

func (r *fakeCampaignRepository) List(status string, textFilter string, limit int, page int) ([]entity.CampaignEntity, error) {
	var result []entity.CampaignEntity
	for _, ent := range r.store.campaigns {
		if status != "" && ent.Status != status {
			continue
		}
		result = append(result, *ent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeCampaignRepository) UpdateAggregates(campaignId string, reviewed int, retained int, removed int) error {
	ent, ok := r.store.campaigns[campaignId]
	if !ok {
		return fmt.Errorf("campaign %s not found", campaignId)
	}
	ent.ReviewedItems = reviewed
	ent.RetainedItems = retained
	ent.RemovedItems = removed
	return nil
}

func (r *fakeCampaignRepository) ListInReviewDueBetween(from time.Time, to time.Time) ([]entity.CampaignEntity, error) {
	var result []entity.CampaignEntity
	for _, ent := range r.store.campaigns {
		if ent.Status != string(view.CampaignStatusInReview) {
			continue
		}
		if ent.DueDate.Before(from) || !ent.DueDate.Before(to) {
			continue
		}
		result = append(result, *ent)
	}
	return result, nil
}

func (r *fakeCampaignRepository) ListInReviewOverdue(now time.Time) ([]entity.CampaignEntity, error) {
	var result []entity.CampaignEntity
	for _, ent := range r.store.campaigns {
		if ent.Status == string(view.CampaignStatusInReview) && ent.DueDate.Before(now) {
			result = append(result, *ent)
		}
	}
	return result, nil
}

type fakeReviewItemRepository struct {
	store *fakeStore
}

func (r *fakeReviewItemRepository) CreateIgnoreDuplicate(ent *entity.ReviewItemEntity) (bool, error) {
	for _, existing := range r.store.items {
		if existing.CampaignId == ent.CampaignId && existing.PermissionId == ent.PermissionId {
			return false, nil
		}
	}
	copied := *ent
	r.store.items[ent.Id] = &copied
	return true, nil
}

func (r *fakeReviewItemRepository) Get(itemId string) (*entity.ReviewItemEntity, error) {
	ent, ok := r.store.items[itemId]
	if !ok {
		return nil, nil
	}
	copied := *ent
	return &copied, nil
}

func (r *fakeReviewItemRepository) List(campaignId string) ([]entity.ReviewItemEntity, error) {
	var result []entity.ReviewItemEntity
	for _, ent := range r.store.items {
		if ent.CampaignId != campaignId {
			continue
		}
		copied := *ent
		if decision, ok := r.store.decisions[ent.Id]; ok {
			decisionCopy := *decision
			copied.Decision = &decisionCopy
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (r *fakeReviewItemRepository) CountByCampaign(campaignId string) (int, error) {
	count := 0
	for _, ent := range r.store.items {
		if ent.CampaignId == campaignId {
			count++
		}
	}
	return count, nil
}

func (r *fakeReviewItemRepository) ListUndecided(campaignId string) ([]entity.ReviewItemEntity, error) {
	var result []entity.ReviewItemEntity
	for _, ent := range r.store.items {
		if ent.CampaignId != campaignId {
			continue
		}
		if _, decided := r.store.decisions[ent.Id]; decided {
			continue
		}
		result = append(result, *ent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (r *fakeReviewItemRepository) CountUndecided(campaignId string) (int, error) {
	undecided, _ := r.ListUndecided(campaignId)
	return len(undecided), nil
}

func (r *fakeReviewItemRepository) DeleteByCampaign(campaignId string) error {
	for id, ent := range r.store.items {
		if ent.CampaignId == campaignId {
			delete(r.store.items, id)
		}
	}
	return nil
}

type fakeDecisionRepository struct {
	store *fakeStore
}

func (r *fakeDecisionRepository) Upsert(ent *entity.DecisionEntity) error {
	copied := *ent
	if existing, ok := r.store.decisions[ent.ItemId]; ok {
		// A completed removal stays completed on an unchanged remove verdict.
		if existing.ExecutionStatus == string(view.ExecutionCompleted) && ent.Decision == string(view.DecisionRemove) {
			copied.ExecutionStatus = existing.ExecutionStatus
			copied.ExecutionError = existing.ExecutionError
			copied.ExecutedAt = existing.ExecutedAt
		}
	}
	r.store.decisions[ent.ItemId] = &copied
	return nil
}

func (r *fakeDecisionRepository) Get(itemId string) (*entity.DecisionEntity, error) {
	ent, ok := r.store.decisions[itemId]
	if !ok {
		return nil, nil
	}
	copied := *ent
	return &copied, nil
}

func (r *fakeDecisionRepository) CountsByCampaign(campaignId string) (repository.DecisionCounts, error) {
	counts := repository.DecisionCounts{}
	for _, ent := range r.store.decisions {
		if ent.CampaignId != campaignId {
			continue
		}
		counts.Reviewed++
		switch ent.Decision {
		case string(view.DecisionRetain):
			counts.Retained++
		case string(view.DecisionRemove):
			counts.Removed++
		}
	}
	return counts, nil
}

func (r *fakeDecisionRepository) ListPendingRemovals(campaignId string) ([]entity.DecisionEntity, error) {
	var result []entity.DecisionEntity
	for _, ent := range r.store.decisions {
		if ent.CampaignId == campaignId &&
			ent.Decision == string(view.DecisionRemove) &&
			ent.ExecutionStatus == string(view.ExecutionPending) {
			result = append(result, *ent)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ItemId < result[j].ItemId })
	return result, nil
}

func (r *fakeDecisionRepository) UpdateExecution(itemId string, status string, executionError string, executedAt time.Time) error {
	ent, ok := r.store.decisions[itemId]
	if !ok {
		return fmt.Errorf("decision for item %s not found", itemId)
	}
	ent.ExecutionStatus = status
	ent.ExecutionError = executionError
	ent.ExecutedAt = executedAt
	return nil
}

func (r *fakeDecisionRepository) ResetFailedExecutions(campaignId string) (int, error) {
	reset := 0
	for _, ent := range r.store.decisions {
		if ent.CampaignId == campaignId && ent.ExecutionStatus == string(view.ExecutionFailed) {
			ent.ExecutionStatus = string(view.ExecutionPending)
			ent.ExecutionError = ""
			reset++
		}
	}
	return reset, nil
}

type fakeScheduledReviewRepository struct {
	store *fakeStore
}

func (r *fakeScheduledReviewRepository) Create(ent *entity.ScheduledReviewEntity) error {
	copied := *ent
	r.store.schedules[ent.Id] = &copied
	return nil
}

func (r *fakeScheduledReviewRepository) Get(id string) (*entity.ScheduledReviewEntity, error) {
	ent, ok := r.store.schedules[id]
	if !ok {
		return nil, nil
	}
	copied := *ent
	return &copied, nil
}

func (r *fakeScheduledReviewRepository) Update(ent *entity.ScheduledReviewEntity) error {
	copied := *ent
	r.store.schedules[ent.Id] = &copied
	return nil
}

func (r *fakeScheduledReviewRepository) Delete(id string) error {
	delete(r.store.schedules, id)
	return nil
}

func (r *fakeScheduledReviewRepository) List() ([]entity.ScheduledReviewEntity, error) {
	var result []entity.ScheduledReviewEntity
	for _, ent := range r.store.schedules {
		result = append(result, *ent)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

func (r *fakeScheduledReviewRepository) ListDue(now time.Time) ([]entity.ScheduledReviewEntity, error) {
	var result []entity.ScheduledReviewEntity
	for _, ent := range r.store.schedules {
		if ent.Enabled && !ent.NextRunAt.IsZero() && !ent.NextRunAt.After(now) {
			result = append(result, *ent)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Id < result[j].Id })
	return result, nil
}

type fakeNotificationRepository struct {
	store *fakeStore
}

func (r *fakeNotificationRepository) Create(ent *entity.NotificationEntity) error {
	copied := *ent
	r.store.notifications = append(r.store.notifications, &copied)
	return nil
}

func (r *fakeNotificationRepository) Get(id string) (*entity.NotificationEntity, error) {
	for _, ent := range r.store.notifications {
		if ent.Id == id {
			copied := *ent
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeNotificationRepository) List(userId string, limit int, page int) ([]entity.NotificationEntity, error) {
	var result []entity.NotificationEntity
	for _, ent := range r.store.notifications {
		if ent.UserId == userId {
			result = append(result, *ent)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepository) MarkRead(id string) error {
	for _, ent := range r.store.notifications {
		if ent.Id == id {
			ent.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification %s not found", id)
}

func (r *fakeNotificationRepository) ExistsForCampaign(campaignId string, notificationType string) (bool, error) {
	for _, ent := range r.store.notifications {
		if ent.CampaignId == campaignId && ent.Type == notificationType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepository) ExistsForCampaignSince(campaignId string, notificationType string, since time.Time) (bool, error) {
	for _, ent := range r.store.notifications {
		if ent.CampaignId == campaignId && ent.Type == notificationType && !ent.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

// fakeLockService always grants the lease unless told otherwise.
type fakeLockService struct {
	denied   bool
	acquired int
	released int
}

func (s *fakeLockService) AcquireLock(ctx goctx.Context, lockName string, leaseSeconds int) (bool, int64, error) {
	if s.denied {
		return false, 0, nil
	}
	s.acquired++
	return true, int64(s.acquired), nil
}

func (s *fakeLockService) ReleaseLock(ctx goctx.Context, lockName string, version int64) error {
	s.released++
	return nil
}

type fakeGraphClient struct {
	sites       map[string]*client.Site
	drives      map[string][]client.Drive
	children    map[string][]client.DriveItem
	permissions map[string][]client.Permission
	deleted     []string
	deleteErrs  map[string]error
}

func newFakeGraphClient() *fakeGraphClient {
	return &fakeGraphClient{
		sites:       map[string]*client.Site{},
		drives:      map[string][]client.Drive{},
		children:    map[string][]client.DriveItem{},
		permissions: map[string][]client.Permission{},
		deleteErrs:  map[string]error{},
	}
}

func refKey(ref client.ResourceRef) string {
	return ref.SiteId + "|" + ref.DriveId + "|" + ref.ItemId
}

func (c *fakeGraphClient) GetSiteByUrl(ctx goctx.Context, siteUrl string) (*client.Site, error) {
	site, ok := c.sites[siteUrl]
	if !ok {
		return nil, fmt.Errorf("site %s not found", siteUrl)
	}
	return site, nil
}

func (c *fakeGraphClient) ListDrives(ctx goctx.Context, siteId string) ([]client.Drive, error) {
	return c.drives[siteId], nil
}

func (c *fakeGraphClient) ListChildren(ctx goctx.Context, driveId string, itemId string) ([]client.DriveItem, error) {
	return c.children[driveId+"|"+itemId], nil
}

func (c *fakeGraphClient) ListPermissions(ctx goctx.Context, ref client.ResourceRef) ([]client.Permission, error) {
	return c.permissions[refKey(ref)], nil
}

func (c *fakeGraphClient) DeletePermission(ctx goctx.Context, ref client.ResourceRef, permissionId string) error {
	if err, ok := c.deleteErrs[permissionId]; ok {
		return err
	}
	c.deleted = append(c.deleted, permissionId)
	return nil
}
