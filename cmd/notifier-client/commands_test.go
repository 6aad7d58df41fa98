package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	"github.com/aliskhannn/delayed-notifier-client/internal/client/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/model"
	"github.com/aliskhannn/delayed-notifier-client/internal/synchronizer"
)

var testItems = []model.Notification{
	{ID: "a1", Message: "Ping", SendAt: "2030-01-01 10:00:00", Retries: 3, To: "123", Channel: model.ChannelTelegram, Status: model.StatusPending},
	{ID: "b2", Message: "Done", SendAt: "2029-01-01 10:00:00", Retries: 0, To: "x@y.io", Channel: model.ChannelEmail, Status: model.StatusSent},
}

func newTestClient(t *testing.T, h http.HandlerFunc) *notification.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return notification.NewClient(srv.URL, srv.Client(), validator.New(), retry.Strategy{Attempts: 1})
}

func listHandler(w http.ResponseWriter, _ *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"result": testItems})
}

func TestRunCreate(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	var out bytes.Buffer
	err := runCreate(context.Background(), c, []string{
		"--message", "Ping",
		"--send-at", "2030-01-01T10:00",
		"--to", "123456",
		"--tz", "UTC",
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "2030-01-01 10:00:00", got["send_at"])
	assert.Equal(t, "telegram", got["channel"])
	assert.EqualValues(t, 3, got["retries"])
	assert.Contains(t, out.String(), "2030-01-01 10:00:00")
}

func TestRunCreate_InvalidInput(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Error("backend must not be called")
	})

	err := runCreate(context.Background(), c, []string{"--send-at", "tomorrow"}, io.Discard)
	assert.Error(t, err)

	err = runCreate(context.Background(), c, []string{"--send-at", "2030-01-01T10:00", "--to", "1", "--channel", "sms"}, io.Discard)
	assert.ErrorIs(t, err, notification.ErrValidation)
}

func TestRunList(t *testing.T) {
	c := newTestClient(t, listHandler)

	var out bytes.Buffer
	require.NoError(t, runList(context.Background(), c, nil, &out))
	assert.Contains(t, out.String(), "a1")
	assert.Contains(t, out.String(), "b2")

	out.Reset()
	require.NoError(t, runList(context.Background(), c, []string{"--status", "sent", "--json"}, &out))

	var items []model.Notification
	require.NoError(t, json.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "b2", items[0].ID)
}

func TestRunCancel(t *testing.T) {
	var deleted []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = append(deleted, r.URL.Path)
			return
		}
		listHandler(w, r)
	})

	var out bytes.Buffer
	require.NoError(t, runCancel(context.Background(), c, []string{"a1"}, &out))
	assert.Equal(t, []string{"/api/notify/a1"}, deleted)
	assert.Contains(t, out.String(), "a1 cancelled")

	err := runCancel(context.Background(), c, []string{"b2"}, io.Discard)
	assert.True(t, errors.Is(err, synchronizer.ErrNotCancellable))
	assert.Len(t, deleted, 1)

	err = runCancel(context.Background(), c, nil, io.Discard)
	assert.Error(t, err)
}

func TestPrintTable_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printTable(&out, nil))
	assert.Equal(t, "no notifications\n", out.String())
}
