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
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/client"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/entity"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/utils"
	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

const maxConcurrentSites = 4
const collectionPerfThresholdMs = 60000

// CollectionService walks the scoped resource hierarchy, filters out
// inherited-only grants and stores one review item per
// (campaign, permission). Inserts are idempotent, so a partially failed
// run can simply be repeated.
type CollectionService interface {
	CollectCampaignItems(ctx context.Context, campaignId string, scope view.CampaignScope) error
}

func NewCollectionService(graphClient client.GraphClient, reviewItemRepository repository.ReviewItemRepository) CollectionService {
	return &collectionServiceImpl{
		graphClient:          graphClient,
		reviewItemRepository: reviewItemRepository,
	}
}

type collectionServiceImpl struct {
	graphClient          client.GraphClient
	reviewItemRepository repository.ReviewItemRepository
}

func (c collectionServiceImpl) CollectCampaignItems(ctx context.Context, campaignId string, scope view.CampaignScope) error {
	start := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentSites)
	for _, siteUrl := range utils.UniqueSet(scope.SiteUrls) {
		siteUrl := siteUrl
		group.Go(func() error {
			if err := c.collectSite(groupCtx, campaignId, scope, siteUrl); err != nil {
				// One inaccessible site must not fail the whole collection.
				log.Errorf("Collection for campaign %s: site %s skipped: %v", campaignId, siteUrl, err)
			}
			return groupCtx.Err()
		})
	}
	err := group.Wait()
	utils.PerfLog(time.Since(start).Milliseconds(), collectionPerfThresholdMs, "collection for campaign "+campaignId)
	return err
}

func (c collectionServiceImpl) collectSite(ctx context.Context, campaignId string, scope view.CampaignScope, siteUrl string) error {
	site, err := c.graphClient.GetSiteByUrl(ctx, siteUrl)
	if err != nil {
		return err
	}

	siteRef := client.ResourceRef{SiteId: site.Id, ResourceType: string(view.ResourceTypeSite)}
	c.collectResource(ctx, campaignId, siteRef, site.Name, "", siteUrl)

	if !scope.IncludeDrives {
		return nil
	}
	drives, err := c.graphClient.ListDrives(ctx, site.Id)
	if err != nil {
		return err
	}
	for _, drive := range drives {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		driveRef := client.ResourceRef{SiteId: site.Id, DriveId: drive.Id, ResourceType: string(view.ResourceTypeDrive)}
		c.collectResource(ctx, campaignId, driveRef, drive.Name, "", siteUrl)
		if scope.IncludeSubfolders {
			c.walkChildren(ctx, campaignId, site.Id, drive.Id, "", siteUrl, 1, scope.MaxDepth)
		}
	}
	return nil
}

func (c collectionServiceImpl) walkChildren(ctx context.Context, campaignId string, siteId string, driveId string, itemId string, siteUrl string, depth int, maxDepth int) {
	if maxDepth > 0 && depth > maxDepth {
		return
	}
	if ctx.Err() != nil {
		return
	}
	children, err := c.graphClient.ListChildren(ctx, driveId, itemId)
	if err != nil {
		// Soft failure, the rest of the tree is still collected.
		log.Warnf("Collection for campaign %s: failed to list children of %s/%s: %v", campaignId, driveId, itemId, err)
		return
	}
	for _, child := range children {
		resourceType := view.ResourceTypeFile
		if child.IsFolder {
			resourceType = view.ResourceTypeFolder
		}
		childRef := client.ResourceRef{SiteId: siteId, DriveId: driveId, ItemId: child.Id, ResourceType: string(resourceType)}
		c.collectResource(ctx, campaignId, childRef, child.Name, child.Path, siteUrl)
		if child.IsFolder {
			c.walkChildren(ctx, campaignId, siteId, driveId, child.Id, siteUrl, depth+1, maxDepth)
		}
	}
}

func (c collectionServiceImpl) collectResource(ctx context.Context, campaignId string, ref client.ResourceRef, resourceName string, resourcePath string, siteUrl string) {
	permissions, err := c.graphClient.ListPermissions(ctx, ref)
	if err != nil {
		log.Warnf("Collection for campaign %s: failed to list permissions of %s %s: %v", campaignId, ref.ResourceType, resourceName, err)
		return
	}
	for _, permission := range permissions {
		if !isIndependentGrant(permission) {
			continue
		}
		ent := makeReviewItemEntity(campaignId, ref, resourceName, resourcePath, siteUrl, permission)
		inserted, err := c.reviewItemRepository.CreateIgnoreDuplicate(ent)
		if err != nil {
			log.Errorf("Collection for campaign %s: failed to store item for permission %s: %v", campaignId, permission.PermissionId, err)
			continue
		}
		if !inserted {
			log.Debugf("Collection for campaign %s: permission %s already collected", campaignId, permission.PermissionId)
		}
	}
}

// isIndependentGrant keeps direct grants and sharing links. Inherited
// entries are only an echo of a grant collected elsewhere.
func isIndependentGrant(permission client.Permission) bool {
	if permission.SharingLinkType != "" {
		return true
	}
	return permission.Origin == string(view.OriginDirect)
}

func makeReviewItemEntity(campaignId string, ref client.ResourceRef, resourceName string, resourcePath string, siteUrl string, permission client.Permission) *entity.ReviewItemEntity {
	origin := permission.Origin
	if permission.SharingLinkType != "" {
		origin = string(view.OriginSharingLink)
	}
	var expiresAt time.Time
	if permission.ExpiresAt != nil {
		expiresAt = *permission.ExpiresAt
	}
	resourceId := ref.ItemId
	if resourceId == "" {
		resourceId = ref.DriveId
	}
	if resourceId == "" {
		resourceId = ref.SiteId
	}
	return &entity.ReviewItemEntity{
		Id:               uuid.New().String(),
		CampaignId:       campaignId,
		ResourceType:     ref.ResourceType,
		ResourceId:       resourceId,
		ResourceName:     resourceName,
		ResourcePath:     resourcePath,
		SiteUrl:          siteUrl,
		SiteId:           ref.SiteId,
		DriveId:          ref.DriveId,
		PermissionId:     permission.PermissionId,
		GrantedTo:        permission.GrantedTo,
		GrantedToType:    permission.GrantedToType,
		AccessLevel:      permission.AccessLevel,
		PermissionOrigin: origin,
		SharingLinkType:  permission.SharingLinkType,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now(),
	}
}
