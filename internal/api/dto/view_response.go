package dto

import (
	"time"

	"github.com/aliskhannn/delayed-notifier-client/internal/model"
	"github.com/aliskhannn/delayed-notifier-client/internal/synchronizer"
)

// NotificationResponse is a cached notification plus whether a UI may
// offer to cancel it.
type NotificationResponse struct {
	model.Notification
	Cancellable bool `json:"cancellable"`
}

// ViewResponse is the synchronizer's snapshot and state.
type ViewResponse struct {
	Items     []NotificationResponse `json:"items"`
	State     synchronizer.State     `json:"state"`
	Error     string                 `json:"error,omitempty"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

// NewViewResponse converts a synchronizer view into its wire form.
func NewViewResponse(v synchronizer.View) ViewResponse {
	items := make([]NotificationResponse, 0, len(v.Items))
	for _, n := range v.Items {
		items = append(items, NotificationResponse{Notification: n, Cancellable: n.Cancellable()})
	}

	resp := ViewResponse{Items: items, State: v.State}

	if v.Err != nil {
		resp.Error = v.Err.Error()
	}

	if !v.UpdatedAt.IsZero() {
		updatedAt := v.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
