package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/delayed-notifier-client/internal/api/dto"
	"github.com/aliskhannn/delayed-notifier-client/internal/api/respond"
	"github.com/aliskhannn/delayed-notifier-client/internal/client/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/model"
	"github.com/aliskhannn/delayed-notifier-client/internal/sendat"
	"github.com/aliskhannn/delayed-notifier-client/internal/synchronizer"
)

// notificationService defines what the Handler needs from the synchronizer.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/notification/mock.go -package=mocks
type notificationService interface {
	View() synchronizer.View
	Trigger()
	Create(ctx context.Context, req notification.CreateRequest) error
	Cancel(ctx context.Context, id string) error
}

// Handler exposes the synchronized notification list and the create and
// cancel commands to a UI over HTTP.
type Handler struct {
	service   notificationService
	validator *validator.Validate
	loc       *time.Location // zone in which send_at input is interpreted
}

// NewHandler creates a new Handler instance.
//
// Parameters:
//   - s: the synchronizer backing the handler
//   - v: validator instance for request validation
//   - loc: location for parsing send_at; nil means time.Local
func NewHandler(s notificationService, v *validator.Validate, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}

	return &Handler{service: s, validator: v, loc: loc}
}

// List handles GET requests and returns the current snapshot.
//
// Listing never fails: a failed refresh shows up as state "errored" with
// the last good snapshot.
func (h *Handler) List(c *ginext.Context) {
	respond.OK(c.Writer, dto.NewViewResponse(h.service.View()))
}

// Refresh handles POST requests asking for an immediate refresh.
func (h *Handler) Refresh(c *ginext.Context) {
	h.service.Trigger()
	respond.Accepted(c.Writer, "refresh scheduled")
}

// Create handles POST requests to schedule a new notification.
func (h *Handler) Create(c *ginext.Context) {
	var req dto.CreateRequest

	// Decode JSON request body into CreateRequest struct.
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	sendAt, err := sendat.ParseLocal(req.SendAt, h.loc)
	if err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to parse send_at time")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid send_at format"))
		return
	}

	err = h.service.Create(c.Request.Context(), notification.CreateRequest{
		Message: req.Message,
		SendAt:  sendAt,
		Retries: req.Retries,
		To:      req.To,
		Channel: model.Channel(req.Channel),
	})
	if err != nil {
		zlog.Logger.Error().Err(err).Str("channel", req.Channel).Msg("failed to create notification")
		respond.Fail(c.Writer, statusFor(err), err)
		return
	}

	respond.Created(c.Writer, "notification created")
}

// Cancel handles DELETE requests to cancel a pending notification.
func (h *Handler) Cancel(c *ginext.Context) {
	id := c.Param("id")
	if id == "" {
		zlog.Logger.Warn().Msg("missing id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("missing id"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id); err != nil {
		zlog.Logger.Error().Err(err).Str("id", id).Msg("failed to cancel notification")
		respond.Fail(c.Writer, statusFor(err), err)
		return
	}

	respond.OK(c.Writer, "notification cancelled")
}

// statusFor maps client and synchronizer errors onto HTTP status codes.
func statusFor(err error) int {
	var backendErr *notification.BackendError

	switch {
	case errors.Is(err, notification.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, synchronizer.ErrNotCancellable):
		return http.StatusConflict
	case errors.Is(err, notification.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, notification.ErrTransport):
		return http.StatusServiceUnavailable
	case errors.As(err, &backendErr), errors.Is(err, notification.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
