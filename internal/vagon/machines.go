package vagon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// MachineFilter narrows ListMachines. Zero values are omitted except
// Page/PerPage which default to 1/20.
type MachineFilter struct {
	Page           int
	PerPage        int
	Query          string
	TimeLeft       *int
	HasSessionData *bool
	Status         string
}

func (f MachineFilter) values() url.Values {
	params := url.Values{}
	page := f.Page
	if page == 0 {
		page = 1
	}
	perPage := f.PerPage
	if perPage == 0 {
		perPage = 20
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if f.Query != "" {
		params.Set("q", f.Query)
	}
	if f.TimeLeft != nil {
		params.Set("time_left", strconv.Itoa(*f.TimeLeft))
	}
	if f.HasSessionData != nil {
		params.Set("has_session_data", strconv.FormatBool(*f.HasSessionData))
	}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	return params
}

// ListMachines returns the organization's machines: {machines, count, page, next_page}.
func (c *Client) ListMachines(ctx context.Context, filter MachineFilter) (Payload, error) {
	return c.request(ctx, "GET", basePath+"/machines", filter.values(), nil)
}

// GetMachine returns a single machine record in JSON:API form.
func (c *Client) GetMachine(ctx context.Context, machineID int) (Payload, error) {
	return c.request(ctx, "GET", fmt.Sprintf("%s/machines/%d", basePath, machineID), nil, nil)
}

// CreateMachinesRequest creates machines with balance payment. Seats are
// provisioned vendor-side; the response carries the machines.
type CreateMachinesRequest struct {
	PlanID      int             `json:"plan_id"`
	Quantity    int             `json:"quantity"`
	SoftwareIDs []int           `json:"software_ids,omitempty"`
	BaseImageID int             `json:"base_image_id,omitempty"`
	Region      string          `json:"region,omitempty"`
	Permissions map[string]bool `json:"permissions,omitempty"`
}

// CreateMachines provisions new machines (and their seats) on the given plan.
func (c *Client) CreateMachines(ctx context.Context, req CreateMachinesRequest) (Payload, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	return c.request(ctx, "POST", basePath+"/machines", nil, req)
}

// StartOptions optionally switch machine type or region on start.
type StartOptions struct {
	MachineTypeID int
	Region        string
}

// StartMachine starts a stopped machine. The body is omitted entirely when no
// option is set.
func (c *Client) StartMachine(ctx context.Context, machineID int, opts StartOptions) (Payload, error) {
	body := map[string]interface{}{}
	if opts.MachineTypeID != 0 {
		body["machine_type_id"] = opts.MachineTypeID
	}
	if opts.Region != "" {
		body["region"] = opts.Region
	}
	var payload interface{}
	if len(body) > 0 {
		payload = body
	}
	return c.request(ctx, "POST", fmt.Sprintf("%s/machines/%d/start", basePath, machineID), nil, payload)
}

// StopMachine stops a running machine. Always graceful so in-flight file
// uploads finish before shutdown.
func (c *Client) StopMachine(ctx context.Context, machineID int) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/machines/%d/stop", basePath, machineID), nil,
		map[string]interface{}{"gracefully": true})
}

// ResetMachine resets a stopped machine back to its golden image. The vendor
// rejects the call while the machine is running.
func (c *Client) ResetMachine(ctx context.Context, machineID int) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/machines/%d/reset", basePath, machineID), nil, nil)
}

// CreateMachineAccess issues a temporary connection link:
// {uid, expires_at, connection_link} nested under attributes.
func (c *Client) CreateMachineAccess(ctx context.Context, machineID, expiresIn int) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/machines/%d/access", basePath, machineID), nil,
		map[string]interface{}{"expires_in": expiresIn})
}

// AvailableMachineTypes lists the machine types the machine's seat plan
// allows, flattened out of their JSON:API wrapping.
func (c *Client) AvailableMachineTypes(ctx context.Context, machineID int) ([]Payload, error) {
	result, err := c.request(ctx, "GET", fmt.Sprintf("%s/machines/%d/available-machine-types", basePath, machineID), nil, nil)
	if err != nil {
		return nil, err
	}
	items, _ := result["machine_types"].([]interface{})
	return FlattenList(items), nil
}

// SetMachineType changes the machine's type within its seat plan.
func (c *Client) SetMachineType(ctx context.Context, machineID, machineTypeID int) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/machines/%d/machine-type", basePath, machineID), nil,
		map[string]interface{}{"machine_type_id": machineTypeID})
}

// PermissionFields lists the permission flags machines can be created with,
// with their types and defaults.
func (c *Client) PermissionFields(ctx context.Context) (Payload, error) {
	return c.request(ctx, "GET", basePath+"/machines/permission-fields", nil, nil)
}

// UpdateMachinePermissions replaces the machine's permission flags.
func (c *Client) UpdateMachinePermissions(ctx context.Context, machineID int, permissions map[string]bool) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/machines/%d/permissions", basePath, machineID), nil,
		map[string]interface{}{"permissions": permissions})
}

// ListMachineContent lists a path on the machine itself. The machine must be
// running.
func (c *Client) ListMachineContent(ctx context.Context, machineID int, path string) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/machines/%d/list-content", basePath, machineID), nil,
		map[string]interface{}{"path": path})
}

// MachineFiles lists the machine's file storage: {files, current, count, page, next_page}.
func (c *Client) MachineFiles(ctx context.Context, machineID int, opts FileListOptions) (Payload, error) {
	return c.request(ctx, "GET", fmt.Sprintf("%s/machines/%d/files", basePath, machineID), opts.values(), nil)
}

// GetSeat returns the seat record backing a machine.
func (c *Client) GetSeat(ctx context.Context, seatID int) (Payload, error) {
	return c.request(ctx, "GET", fmt.Sprintf("%s/seats/%d", basePath, seatID), nil, nil)
}
