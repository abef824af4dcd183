// Package session owns the authentication token lifecycle: the persisted
// token/email/expiration triplet, the one-shot expiration timer, and the
// periodic liveness poll that backstops it.
package session

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

var (
	ErrEmptyToken       = errors.New("token must not be empty")
	ErrInvalidTTL       = errors.New("session ttl must be positive")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Keys in the persisted session-state namespace. The manager has exclusive
// ownership of these; nothing else reads or writes them.
const (
	KeyToken      = "auth_token"
	KeyEmail      = "user_email"
	KeyExpiration = "token_expiration"
)

// Route is a navigation intent sent to the router collaborator
type Route string

const (
	RouteDashboard Route = "/dashboard"
	RouteLogin     Route = "/login"
)

// Navigator receives navigation intents. The manager never renders UI itself.
type Navigator interface {
	NavigateTo(route Route)
}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(route Route)

// NavigateTo implements Navigator
func (f NavigatorFunc) NavigateTo(route Route) { f(route) }

// Store is the key-value persistence behind the manager. Multi-key writes
// and deletes must be atomic so no reader sees a partial triplet.
type Store interface {
	Get(key string) (string, bool, error)
	SetAll(values map[string]string) error
	DeleteAll(keys ...string) error
}

// Manager holds authentication state for one running application instance.
// Construct one at startup and pass it to collaborators by reference.
type Manager struct {
	store Store
	nav   Navigator
	poll  time.Duration

	mu            sync.Mutex
	timer         *time.Timer
	subscribers   []func(authenticated bool)
	authenticated bool   // last observed state, used only to dedupe transitions
	gen           uint64 // session generation, bumped on every login and logout
	done          chan struct{}
	started       bool
}

// NewManager creates a session manager. The initial authenticated state is
// recomputed from the store, never assumed; a still-live persisted session
// re-arms the expiration timer for its remaining duration.
func NewManager(store Store, nav Navigator, poll time.Duration) *Manager {
	if poll <= 0 {
		poll = 5 * time.Second
	}
	m := &Manager{
		store: store,
		nav:   nav,
		poll:  poll,
		done:  make(chan struct{}),
	}
	if m.IsAuthenticated() {
		if expires, ok := m.expiration(); ok {
			m.mu.Lock()
			m.authenticated = true
			m.timer = m.expireAfter(time.Until(expires))
			m.mu.Unlock()
		}
	}
	return m
}

// Login stores the token, email and expiration as one atomic group,
// transitions to authenticated, and (re)arms the expiration timer. Any
// prior timer is cancelled first so duplicate timers never coexist; the
// generation bump invalidates a prior timer that already fired and is
// blocked on the lock.
func (m *Manager) Login(token, email string, ttl time.Duration) error {
	if token == "" {
		return ErrEmptyToken
	}
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	expires := time.Now().Add(ttl)

	m.mu.Lock()
	if err := m.store.SetAll(map[string]string{
		KeyToken:      token,
		KeyEmail:      email,
		KeyExpiration: strconv.FormatInt(expires.UnixMilli(), 10),
	}); err != nil {
		m.mu.Unlock()
		return err
	}

	m.stopTimer()
	m.gen++
	m.timer = m.expireAfter(ttl)

	changed := !m.authenticated
	m.authenticated = true
	subs := m.snapshotSubscribers()
	m.mu.Unlock()

	if changed {
		notify(subs, true)
	}
	m.nav.NavigateTo(RouteDashboard)
	return nil
}

// Logout clears the persisted triplet, cancels the timer and transitions to
// unauthenticated. Calling it while already logged out is a no-op besides
// the redundant clear; the state-change notification fires at most once.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.stopTimer()
	m.gen++
	m.store.DeleteAll(KeyToken, KeyEmail, KeyExpiration)

	changed := m.authenticated
	m.authenticated = false
	subs := m.snapshotSubscribers()
	m.mu.Unlock()

	if changed {
		notify(subs, false)
	}
	m.nav.NavigateTo(RouteLogin)
}

// IsAuthenticated recomputes the answer from persisted state and the wall
// clock on every call. A missing token, a missing or unparsable expiration,
// or an expiration in the past all read as not authenticated.
func (m *Manager) IsAuthenticated() bool {
	token, ok, err := m.store.Get(KeyToken)
	if err != nil || !ok || token == "" {
		return false
	}
	expires, ok := m.expiration()
	if !ok {
		return false
	}
	return time.Now().Before(expires)
}

// UserEmail returns the persisted email, or "" when absent
func (m *Manager) UserEmail() string {
	email, _, _ := m.store.Get(KeyEmail)
	return email
}

// Token returns the persisted token, or "" when absent
func (m *Manager) Token() string {
	token, _, _ := m.store.Get(KeyToken)
	return token
}

// Subscribe registers a callback invoked on every authenticated-state
// transition. Callbacks run outside the manager's lock.
func (m *Manager) Subscribe(fn func(authenticated bool)) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.mu.Unlock()
}

// Start launches the periodic liveness poll. The one-shot timer alone is
// not enough: timers may not fire across process suspension, so the poll
// re-checks persisted state and forces expiration when they disagree.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.poll)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.checkLiveness()
			case <-m.done:
				return
			}
		}
	}()
}

// Close stops the poll and the expiration timer
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTimer()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

func (m *Manager) checkLiveness() {
	m.mu.Lock()
	gen := m.gen
	stale := m.authenticated
	m.mu.Unlock()
	if !stale || m.IsAuthenticated() {
		return
	}
	m.forceExpire(gen)
}

// expireAfter arms a one-shot expiration bound to the current generation.
// Must be called with the lock held.
func (m *Manager) expireAfter(d time.Duration) *time.Timer {
	gen := m.gen
	return time.AfterFunc(d, func() { m.forceExpire(gen) })
}

// forceExpire is the single expiration transition. Both the one-shot timer
// and the liveness poll funnel here; each trigger carries the generation it
// was armed under, so a trigger that outlived its session (a timer that
// fired during a re-login, say) is a silent no-op rather than a wipe of the
// fresh session. The authenticated-flag guard dedupes same-generation
// triggers, so subscribers see exactly one transition.
func (m *Manager) forceExpire(gen uint64) {
	m.mu.Lock()
	if gen != m.gen || !m.authenticated {
		m.mu.Unlock()
		return
	}
	m.authenticated = false
	m.stopTimer()
	m.store.DeleteAll(KeyToken, KeyEmail, KeyExpiration)
	subs := m.snapshotSubscribers()
	m.mu.Unlock()

	notify(subs, false)
	m.nav.NavigateTo(RouteLogin)
}

// expiration reads and parses the persisted expiration instant. Absent or
// malformed values report false: the session fails closed.
func (m *Manager) expiration() (time.Time, bool) {
	raw, ok, err := m.store.Get(KeyExpiration)
	if err != nil || !ok {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// stopTimer must be called with the lock held
func (m *Manager) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// snapshotSubscribers must be called with the lock held
func (m *Manager) snapshotSubscribers() []func(bool) {
	subs := make([]func(bool), len(m.subscribers))
	copy(subs, m.subscribers)
	return subs
}

func notify(subs []func(bool), authenticated bool) {
	for _, fn := range subs {
		fn(authenticated)
	}
}
