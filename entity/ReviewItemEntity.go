package entity

import (
	"time"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/view"
)

// Unique index on (campaign_id, permission_id) backs the idempotent
// collection insert.
type ReviewItemEntity struct {
	tableName struct{} `pg:"review_items, alias:review_items"`

	Id               string    `pg:"id, pk, type:varchar"`
	CampaignId       string    `pg:"campaign_id, type:varchar, notnull"`
	ResourceType     string    `pg:"resource_type, type:varchar"`
	ResourceId       string    `pg:"resource_id, type:varchar"`
	ResourceName     string    `pg:"resource_name, type:varchar"`
	ResourcePath     string    `pg:"resource_path, type:varchar"`
	SiteUrl          string    `pg:"site_url, type:varchar"`
	SiteId           string    `pg:"site_id, type:varchar"`
	DriveId          string    `pg:"drive_id, type:varchar"`
	PermissionId     string    `pg:"permission_id, type:varchar, notnull"`
	GrantedTo        string    `pg:"granted_to, type:varchar"`
	GrantedToType    string    `pg:"granted_to_type, type:varchar"`
	AccessLevel      string    `pg:"access_level, type:varchar"`
	PermissionOrigin string    `pg:"permission_origin, type:varchar"`
	SharingLinkType  string    `pg:"sharing_link_type, type:varchar"`
	ExpiresAt        time.Time `pg:"expires_at, type:timestamp without time zone"`
	CreatedAt        time.Time `pg:"created_at, type:timestamp without time zone"`

	Decision *DecisionEntity `pg:"rel:has-one, fk:id, join_fk:item_id"`
}

func MakeReviewItemView(ent ReviewItemEntity) view.ReviewItem {
	var expiresAt *time.Time
	if !ent.ExpiresAt.IsZero() {
		expiresAt = &ent.ExpiresAt
	}
	item := view.ReviewItem{
		Id:               ent.Id,
		CampaignId:       ent.CampaignId,
		ResourceType:     view.ResourceType(ent.ResourceType),
		ResourceId:       ent.ResourceId,
		ResourceName:     ent.ResourceName,
		ResourcePath:     ent.ResourcePath,
		SiteUrl:          ent.SiteUrl,
		PermissionId:     ent.PermissionId,
		GrantedTo:        ent.GrantedTo,
		GrantedToType:    ent.GrantedToType,
		AccessLevel:      ent.AccessLevel,
		PermissionOrigin: view.PermissionOrigin(ent.PermissionOrigin),
		SharingLinkType:  ent.SharingLinkType,
		ExpiresAt:        expiresAt,
		CreatedAt:        ent.CreatedAt,
	}
	if ent.Decision != nil {
		decision := MakeDecisionView(*ent.Decision)
		item.Decision = &decision
	}
	return item
}
