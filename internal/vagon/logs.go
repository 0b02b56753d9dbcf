package vagon

import (
	"context"
	"net/url"
	"strconv"
)

// LogFilter selects user action log entries by time window and optional
// action type / actor / machine.
type LogFilter struct {
	StartDate  string // ISO-8601, inclusive
	EndDate    string // ISO-8601, inclusive
	ActionType string
	UserEmail  string
	MachineID  *int
}

// UserActionLogs fetches recent (last 30 days) user action logs:
// {logs, count, start_date, end_date}.
func (c *Client) UserActionLogs(ctx context.Context, filter LogFilter) (Payload, error) {
	params := url.Values{}
	params.Set("start_date", filter.StartDate)
	params.Set("end_date", filter.EndDate)
	if filter.ActionType != "" {
		params.Set("action_type", filter.ActionType)
	}
	if filter.UserEmail != "" {
		params.Set("user_email", filter.UserEmail)
	}
	if filter.MachineID != nil {
		params.Set("organization_machine_id", strconv.Itoa(*filter.MachineID))
	}
	return c.request(ctx, "GET", basePath+"/user-action-logs", params, nil)
}

// ArchivedLogURLs returns presigned download URLs for log archives older than
// the 30-day retention window: {download_urls, count}.
func (c *Client) ArchivedLogURLs(ctx context.Context, startDate, endDate string, expiresIn int) (Payload, error) {
	if expiresIn == 0 {
		expiresIn = 600
	}
	params := url.Values{}
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	params.Set("expires_in", strconv.Itoa(expiresIn))
	return c.request(ctx, "GET", basePath+"/user-action-logs/archived-download-urls", params, nil)
}
