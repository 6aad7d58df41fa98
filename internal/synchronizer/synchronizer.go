package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/delayed-notifier-client/internal/client/notification"
	"github.com/aliskhannn/delayed-notifier-client/internal/model"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 10 * time.Second

// ErrNotCancellable is returned by Cancel for a notification the snapshot
// shows in a terminal state.
var ErrNotCancellable = errors.New("notification is not cancellable")

// State describes what the synchronizer is currently doing.
type State string

const (
	StateIdle       State = "idle"       // snapshot is current, nothing in flight
	StateRefreshing State = "refreshing" // a fetch is in flight
	StateErrored    State = "errored"    // last applied fetch failed, snapshot retained
)

//go:generate mockgen -source=synchronizer.go -destination=../mocks/synchronizer/mock.go -package=mocks
type notificationClient interface {
	List(ctx context.Context) ([]model.Notification, error)
	Create(ctx context.Context, req notification.CreateRequest) error
	Cancel(ctx context.Context, id string) error
}

// View is a consistent copy of the synchronizer's state.
type View struct {
	Items     []model.Notification // snapshot, replaced wholesale on each successful refresh
	State     State
	Err       error     // error of the last applied fetch, nil after a success
	UpdatedAt time.Time // time of the last successful refresh, zero if none
}

// Synchronizer keeps a periodically refreshed snapshot of all notifications.
//
// Every fetch is numbered when it starts. A completed fetch is applied only
// if no fetch started after it has been applied already, so a slow, older
// response never overwrites a newer snapshot. Once Run returns the
// synchronizer is disposed: results of fetches still in flight are dropped
// and further refreshes are no-ops.
type Synchronizer struct {
	client   notificationClient
	interval time.Duration
	trigger  chan struct{}

	mu        sync.RWMutex
	items     []model.Notification
	err       error
	updatedAt time.Time
	inFlight  int
	started   uint64 // generation of the most recently started fetch
	applied   uint64 // generation of the most recently applied fetch
	disposed  bool
	onUpdate  func(View)
}

// New creates a Synchronizer polling c every interval.
// A non-positive interval means DefaultInterval.
func New(c notificationClient, interval time.Duration) *Synchronizer {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Synchronizer{
		client:   c,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		items:    []model.Notification{},
	}
}

// SetOnUpdate sets a callback invoked after every state change.
// The callback runs outside the synchronizer's lock.
func (s *Synchronizer) SetOnUpdate(fn func(View)) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
}

// Run refreshes immediately, then on every tick and every Trigger, until
// ctx is done. The synchronizer is disposed when Run returns.
func (s *Synchronizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.dispose()

	zlog.Logger.Info().Dur("interval", s.interval).Msg("synchronizer started")

	s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Print("synchronizer stopped")
			return
		case <-ticker.C:
			s.Refresh(ctx)
		case <-s.trigger:
			s.Refresh(ctx)
		}
	}
}

// Trigger asks the Run loop for an out-of-band refresh without blocking.
func (s *Synchronizer) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
		// A refresh is already pending.
	}
}

// Refresh fetches the full list and applies it unless superseded.
// Fetch failures are recorded in the view, never returned.
func (s *Synchronizer) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}

	s.started++
	gen := s.started
	s.inFlight++
	s.notifyLocked()

	items, err := s.client.List(ctx)

	s.mu.Lock()
	s.inFlight--

	switch {
	case s.disposed || ctx.Err() != nil:
		zlog.Logger.Debug().Uint64("generation", gen).Msg("dropping fetch result after disposal")
		s.mu.Unlock()
		return
	case gen <= s.applied:
		zlog.Logger.Debug().Uint64("generation", gen).Uint64("applied", s.applied).Msg("dropping superseded fetch result")
	case err != nil:
		zlog.Logger.Error().Err(err).Uint64("generation", gen).Msg("failed to refresh notifications")
		s.applied = gen
		s.err = err
	default:
		s.applied = gen
		s.items = items
		s.err = nil
		s.updatedAt = time.Now()
	}

	s.notifyLocked()
}

// View returns a copy of the current snapshot and state.
func (s *Synchronizer) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.viewLocked()
}

// Get returns the cached notification with the given id.
func (s *Synchronizer) Get(id string) (model.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.items {
		if n.ID == id {
			return n, true
		}
	}

	return model.Notification{}, false
}

// Create schedules a new notification and refreshes the snapshot on success.
// Failures are returned to the caller and leave the snapshot untouched.
func (s *Synchronizer) Create(ctx context.Context, req notification.CreateRequest) error {
	if err := s.client.Create(ctx, req); err != nil {
		return err
	}

	s.Refresh(ctx)
	return nil
}

// Cancel cancels a pending notification and refreshes the snapshot on
// success. It refuses without contacting the backend when the snapshot
// shows the notification in a terminal state.
func (s *Synchronizer) Cancel(ctx context.Context, id string) error {
	if n, ok := s.Get(id); ok && !n.Cancellable() {
		return fmt.Errorf("%w: %s is %s", ErrNotCancellable, id, n.Status)
	}

	if err := s.client.Cancel(ctx, id); err != nil {
		return err
	}

	s.Refresh(ctx)
	return nil
}

func (s *Synchronizer) dispose() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()
}

func (s *Synchronizer) viewLocked() View {
	items := make([]model.Notification, len(s.items))
	copy(items, s.items)

	state := StateIdle
	switch {
	case s.inFlight > 0:
		state = StateRefreshing
	case s.err != nil:
		state = StateErrored
	}

	return View{
		Items:     items,
		State:     state,
		Err:       s.err,
		UpdatedAt: s.updatedAt,
	}
}

// notifyLocked releases the lock and then runs the update callback.
func (s *Synchronizer) notifyLocked() {
	fn := s.onUpdate
	view := s.viewLocked()
	s.mu.Unlock()

	if fn != nil {
		fn(view)
	}
}
