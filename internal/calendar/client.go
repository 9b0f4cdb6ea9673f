package calendar

import (
	"context"
	"fmt"
	"net/http"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// sendUpdatesAll directs the provider to notify every attendee about the
// change.
const sendUpdatesAll = "all"

// Client wraps the Google Calendar service for a single authenticated user.
type Client struct {
	svc *calendar.Service
}

// NewClient creates a Calendar client from an authenticated HTTP client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// InsertEvent creates an event on the given calendar, notifying all
// attendees, and returns the provider's event identifier.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, input EventInput) (string, error) {
	created, err := c.svc.Events.Insert(calendarID, toEvent(input)).
		SendUpdates(sendUpdatesAll).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return created.Id, nil
}

// UpdateEvent replaces an existing event on the given calendar, notifying
// all attendees.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput) error {
	_, err := c.svc.Events.Update(calendarID, eventID, toEvent(input)).
		SendUpdates(sendUpdatesAll).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	return nil
}

// DeleteEvent removes an event from the given calendar, notifying all
// attendees.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.svc.Events.Delete(calendarID, eventID).
		SendUpdates(sendUpdatesAll).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}
