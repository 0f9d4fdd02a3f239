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

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

type Site struct {
	Id   string `json:"id"`
	Url  string `json:"webUrl"`
	Name string `json:"displayName"`
}

type Drive struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type DriveItem struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	IsFolder bool   `json:"isFolder"`
}

// ResourceRef addresses one resource in the permission source. DriveId and
// ItemId are empty for site-level resources.
type ResourceRef struct {
	SiteId       string `json:"siteId"`
	DriveId      string `json:"driveId,omitempty"`
	ItemId       string `json:"itemId,omitempty"`
	ResourceType string `json:"resourceType"`
}

type Permission struct {
	PermissionId    string     `json:"id"`
	GrantedTo       string     `json:"grantedTo"`
	GrantedToType   string     `json:"grantedToType"`
	AccessLevel     string     `json:"accessLevel"`
	Origin          string     `json:"origin"`
	SharingLinkType string     `json:"sharingLinkType,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

// GraphClient is the permission source capability consumed by collection
// and execution. The core depends only on this surface.
type GraphClient interface {
	GetSiteByUrl(ctx context.Context, siteUrl string) (*Site, error)
	ListDrives(ctx context.Context, siteId string) ([]Drive, error)
	ListChildren(ctx context.Context, driveId string, itemId string) ([]DriveItem, error)
	ListPermissions(ctx context.Context, ref ResourceRef) ([]Permission, error)
	DeletePermission(ctx context.Context, ref ResourceRef, permissionId string) error
}

func NewGraphClient(baseUrl string, accessToken string, timeout time.Duration) GraphClient {
	return &graphClientImpl{
		baseUrl:     baseUrl,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type graphClientImpl struct {
	baseUrl     string
	accessToken string
	httpClient  *http.Client
}

func (c *graphClientImpl) GetSiteByUrl(ctx context.Context, siteUrl string) (*Site, error) {
	var site Site
	requestUrl := fmt.Sprintf("%s/sites/byUrl?url=%s", c.baseUrl, url.QueryEscape(siteUrl))
	if err := c.getJson(ctx, requestUrl, &site); err != nil {
		return nil, errors.Wrapf(err, "failed to resolve site by url %s", siteUrl)
	}
	return &site, nil
}

func (c *graphClientImpl) ListDrives(ctx context.Context, siteId string) ([]Drive, error) {
	var result struct {
		Value []Drive `json:"value"`
	}
	requestUrl := fmt.Sprintf("%s/sites/%s/drives", c.baseUrl, url.PathEscape(siteId))
	if err := c.getJson(ctx, requestUrl, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to list drives for site %s", siteId)
	}
	return result.Value, nil
}

func (c *graphClientImpl) ListChildren(ctx context.Context, driveId string, itemId string) ([]DriveItem, error) {
	var result struct {
		Value []DriveItem `json:"value"`
	}
	var requestUrl string
	if itemId == "" {
		requestUrl = fmt.Sprintf("%s/drives/%s/root/children", c.baseUrl, url.PathEscape(driveId))
	} else {
		requestUrl = fmt.Sprintf("%s/drives/%s/items/%s/children", c.baseUrl, url.PathEscape(driveId), url.PathEscape(itemId))
	}
	if err := c.getJson(ctx, requestUrl, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to list children of item %s in drive %s", itemId, driveId)
	}
	return result.Value, nil
}

func (c *graphClientImpl) ListPermissions(ctx context.Context, ref ResourceRef) ([]Permission, error) {
	var result struct {
		Value []Permission `json:"value"`
	}
	if err := c.getJson(ctx, c.permissionsUrl(ref, ""), &result); err != nil {
		return nil, errors.Wrapf(err, "failed to list permissions for %s %s", ref.ResourceType, refId(ref))
	}
	return result.Value, nil
}

func (c *graphClientImpl) DeletePermission(ctx context.Context, ref ResourceRef, permissionId string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.permissionsUrl(ref, permissionId), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete permission %s for %s %s failed with status %d: %s",
			permissionId, ref.ResourceType, refId(ref), resp.StatusCode, string(body))
	}
	return nil
}

func (c *graphClientImpl) permissionsUrl(ref ResourceRef, permissionId string) string {
	var resourceUrl string
	if ref.DriveId == "" {
		resourceUrl = fmt.Sprintf("%s/sites/%s", c.baseUrl, url.PathEscape(ref.SiteId))
	} else if ref.ItemId == "" {
		resourceUrl = fmt.Sprintf("%s/drives/%s/root", c.baseUrl, url.PathEscape(ref.DriveId))
	} else {
		resourceUrl = fmt.Sprintf("%s/drives/%s/items/%s", c.baseUrl, url.PathEscape(ref.DriveId), url.PathEscape(ref.ItemId))
	}
	if permissionId == "" {
		return resourceUrl + "/permissions"
	}
	return resourceUrl + "/permissions/" + url.PathEscape(permissionId)
}

func (c *graphClientImpl) getJson(ctx context.Context, requestUrl string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request to %s failed with status %d: %s", requestUrl, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *graphClientImpl) do(req *http.Request) (*http.Response, error) {
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func refId(ref ResourceRef) string {
	if ref.ItemId != "" {
		return ref.ItemId
	}
	if ref.DriveId != "" {
		return ref.DriveId
	}
	return ref.SiteId
}
