package view

import "time"

type PermissionOrigin string

const (
	OriginDirect      PermissionOrigin = "direct"
	OriginInherited   PermissionOrigin = "inherited"
	OriginSharingLink PermissionOrigin = "sharing_link"
)

type ResourceType string

const (
	ResourceTypeSite   ResourceType = "site"
	ResourceTypeDrive  ResourceType = "drive"
	ResourceTypeFolder ResourceType = "folder"
	ResourceTypeFile   ResourceType = "file"
)

// ReviewItem is one (resource, permission) pair awaiting a decision.
// Items are created only during collection and are unique per
// (campaignId, permissionId).
type ReviewItem struct {
	Id               string           `json:"id"`
	CampaignId       string           `json:"campaignId"`
	ResourceType     ResourceType     `json:"resourceType"`
	ResourceId       string           `json:"resourceId"`
	ResourceName     string           `json:"resourceName"`
	ResourcePath     string           `json:"resourcePath,omitempty"`
	SiteUrl          string           `json:"siteUrl"`
	PermissionId     string           `json:"permissionId"`
	GrantedTo        string           `json:"grantedTo"`
	GrantedToType    string           `json:"grantedToType,omitempty"`
	AccessLevel      string           `json:"accessLevel"`
	PermissionOrigin PermissionOrigin `json:"permissionOrigin"`
	SharingLinkType  string           `json:"sharingLinkType,omitempty"`
	ExpiresAt        *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	Decision         *Decision        `json:"decision,omitempty"`
}

type ReviewItems struct {
	ReviewItems []ReviewItem `json:"reviewItems"`
}
