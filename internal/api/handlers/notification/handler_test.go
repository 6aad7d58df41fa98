package notification

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/delayed-notifier-client/internal/api/dto"
	"github.com/aliskhannn/delayed-notifier-client/internal/client/notification"
	mocks "github.com/aliskhannn/delayed-notifier-client/internal/mocks/api/handlers/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/model"
	"github.com/aliskhannn/delayed-notifier-client/internal/synchronizer"
)

var testLoc = time.FixedZone("MSK", 3*3600)

func setupHandler(t *testing.T) (*Handler, *mocks.MocknotificationService) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	mockService := mocks.NewMocknotificationService(ctrl)
	handler := NewHandler(mockService, validator.New(), testLoc)
	return handler, mockService
}

func newContext(method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (json.RawMessage, string) {
	t.Helper()

	var env struct {
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Result, env.Error
}

func TestHandler_Create_Success(t *testing.T) {
	handler, mockService := setupHandler(t)

	reqBody := dto.CreateRequest{
		Message: "Ping",
		SendAt:  "2030-01-01T10:00",
		Retries: 2,
		To:      "123456",
		Channel: "telegram",
	}
	c, w := newContext(http.MethodPost, "/api/notifications/", reqBody)

	mockService.EXPECT().
		Create(gomock.Any(), notification.CreateRequest{
			Message: "Ping",
			SendAt:  time.Date(2030, time.January, 1, 10, 0, 0, 0, testLoc),
			Retries: 2,
			To:      "123456",
			Channel: model.ChannelTelegram,
		}).
		Return(nil)

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
}

func TestHandler_Create_ZeroRetries(t *testing.T) {
	handler, mockService := setupHandler(t)

	reqBody := dto.CreateRequest{Message: "Ping", SendAt: "2030-01-01 10:00:00", Retries: 0, To: "u@example.com", Channel: "email"}
	c, w := newContext(http.MethodPost, "/api/notifications/", reqBody)

	mockService.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
}

func TestHandler_Create_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"not json", "{"},
		{"missing message", dto.CreateRequest{SendAt: "2030-01-01T10:00", To: "1", Channel: "telegram"}},
		{"negative retries", dto.CreateRequest{Message: "m", SendAt: "2030-01-01T10:00", Retries: -1, To: "1", Channel: "telegram"}},
		{"unknown channel", dto.CreateRequest{Message: "m", SendAt: "2030-01-01T10:00", To: "1", Channel: "sms"}},
		{"bad send_at", dto.CreateRequest{Message: "m", SendAt: "soon", To: "1", Channel: "telegram"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupHandler(t)
			c, w := newContext(http.MethodPost, "/api/notifications/", tt.body)

			handler.Create(c)

			assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
		})
	}
}

func TestHandler_Create_BackendRejects(t *testing.T) {
	handler, mockService := setupHandler(t)

	reqBody := dto.CreateRequest{Message: "Ping", SendAt: "2030-01-01T10:00", Retries: 2, To: "x", Channel: "telegram"}
	c, w := newContext(http.MethodPost, "/api/notifications/", reqBody)

	mockService.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&notification.BackendError{Status: http.StatusBadRequest, Body: "bad to"})

	handler.Create(c)

	assert.Equal(t, http.StatusBadGateway, w.Result().StatusCode)
	_, msg := decodeEnvelope(t, w)
	assert.Contains(t, msg, "bad to")
}

func TestHandler_List(t *testing.T) {
	handler, mockService := setupHandler(t)
	updatedAt := time.Date(2030, time.January, 1, 9, 0, 0, 0, time.UTC)

	mockService.EXPECT().View().Return(synchronizer.View{
		Items: []model.Notification{
			{ID: "a", Message: "m", Status: model.StatusPending},
			{ID: "b", Message: "m", Status: model.StatusSent},
		},
		State:     synchronizer.StateErrored,
		Err:       errors.New("connection refused"),
		UpdatedAt: updatedAt,
	})

	c, w := newContext(http.MethodGet, "/api/notifications/", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	raw, _ := decodeEnvelope(t, w)
	var got dto.ViewResponse
	require.NoError(t, json.Unmarshal(raw, &got))

	require.Len(t, got.Items, 2)
	assert.Equal(t, "a", got.Items[0].ID)
	assert.True(t, got.Items[0].Cancellable)
	assert.False(t, got.Items[1].Cancellable)
	assert.Equal(t, synchronizer.StateErrored, got.State)
	assert.Equal(t, "connection refused", got.Error)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, updatedAt.Equal(*got.UpdatedAt))
}

func TestHandler_List_Empty(t *testing.T) {
	handler, mockService := setupHandler(t)
	mockService.EXPECT().View().Return(synchronizer.View{Items: []model.Notification{}, State: synchronizer.StateIdle})

	c, w := newContext(http.MethodGet, "/api/notifications/", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.JSONEq(t, `{"result":{"items":[],"state":"idle"}}`, w.Body.String())
}

func TestHandler_Refresh(t *testing.T) {
	handler, mockService := setupHandler(t)
	mockService.EXPECT().Trigger()

	c, w := newContext(http.MethodPost, "/api/notifications/refresh", nil)
	handler.Refresh(c)

	assert.Equal(t, http.StatusAccepted, w.Result().StatusCode)
}

func TestHandler_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"not cancellable", synchronizer.ErrNotCancellable, http.StatusConflict},
		{"not found", notification.ErrNotFound, http.StatusNotFound},
		{"transport", notification.ErrTransport, http.StatusServiceUnavailable},
		{"backend", &notification.BackendError{Status: 500}, http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mockService := setupHandler(t)

			c, w := newContext(http.MethodDelete, "/api/notifications/8d3a", nil)
			c.Params = gin.Params{{Key: "id", Value: "8d3a"}}

			mockService.EXPECT().Cancel(gomock.Any(), "8d3a").Return(tt.err)

			handler.Cancel(c)

			assert.Equal(t, tt.status, w.Result().StatusCode)
		})
	}
}

func TestHandler_Cancel_MissingID(t *testing.T) {
	handler, _ := setupHandler(t)

	c, w := newContext(http.MethodDelete, "/api/notifications/", nil)
	handler.Cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}
