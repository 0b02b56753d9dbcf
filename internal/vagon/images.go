package vagon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ImageFilter narrows ListImages.
type ImageFilter struct {
	Page    int
	PerPage int
	Query   string
}

// ListImages lists the organization's image templates: {images, count, page, next_page}.
func (c *Client) ListImages(ctx context.Context, filter ImageFilter) (Payload, error) {
	params := url.Values{}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage == 0 {
		perPage = 20
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if filter.Query != "" {
		params.Set("q", filter.Query)
	}
	return c.request(ctx, "GET", basePath+"/images", params, nil)
}

// GetImage returns a single image record in JSON:API form.
func (c *Client) GetImage(ctx context.Context, imageID int) (Payload, error) {
	return c.request(ctx, "GET", fmt.Sprintf("%s/images/%d", basePath, imageID), nil, nil)
}

// CreateImage snapshots a stopped machine into a new image template.
func (c *Client) CreateImage(ctx context.Context, machineID int, name string) (Payload, error) {
	body := map[string]interface{}{"machine_id": machineID}
	if name != "" {
		body["name"] = name
	}
	return c.request(ctx, "POST", basePath+"/images", nil, body)
}

// InstallImageRequest builds an image from pre-installation: picked software
// on top of an optional base image.
type InstallImageRequest struct {
	SoftwareIDs []int
	BaseImageID int
	Name        string
}

// InstallImage creates an image from pre-installation. The body is omitted
// entirely when nothing is set.
func (c *Client) InstallImage(ctx context.Context, req InstallImageRequest) (Payload, error) {
	body := map[string]interface{}{}
	if len(req.SoftwareIDs) > 0 {
		body["software_ids"] = req.SoftwareIDs
	}
	if req.BaseImageID != 0 {
		body["base_image_id"] = req.BaseImageID
	}
	if req.Name != "" {
		body["name"] = req.Name
	}
	var payload interface{}
	if len(body) > 0 {
		payload = body
	}
	return c.request(ctx, "POST", basePath+"/images/install", nil, payload)
}

// AssignImage assigns the image to the given machines. The vendor terminates
// the machines and swaps their seat image.
func (c *Client) AssignImage(ctx context.Context, imageID int, machineIDs []int) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/images/%d/assign", basePath, imageID), nil,
		map[string]interface{}{"machine_ids": machineIDs})
}

// DeleteImage removes the image from the organization and all assigned seats.
func (c *Client) DeleteImage(ctx context.Context, imageID int) (Payload, error) {
	return c.request(ctx, "DELETE", fmt.Sprintf("%s/images/%d", basePath, imageID), nil, nil)
}

// ListSoftware lists installable software and the vendor's base images:
// {software, base_images}.
func (c *Client) ListSoftware(ctx context.Context) (Payload, error) {
	return c.request(ctx, "GET", basePath+"/software", nil, nil)
}
