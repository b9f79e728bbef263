package session

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-assoc-admin/authapi"
	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
	"github.com/jrsteele09/go-assoc-admin/internal/utils"
	"github.com/jrsteele09/go-assoc-admin/token"
	"github.com/jrsteele09/go-assoc-admin/tokenstore"
	"github.com/jrsteele09/go-assoc-admin/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Credentialer is the credential slot of the HTTP client. Only the Manager
// writes to it.
type Credentialer interface {
	SetCredential(token string)
	ClearCredential()
}

// credentialSource is implemented by clients that can ask for the live token
// on every request. The manager registers Token with them so a token is never
// sent once it has passed its expiry.
type credentialSource interface {
	SetCredentialSource(source func() string)
}

// Observer is told about the manager's state after every change.
type Observer func(State)

// Manager is the auth session state machine. It is safe for concurrent use.
//
// Login, logout and init are serialized through a FIFO semaphore, so they apply
// in the order they were requested and the later one wins. The token store,
// the session and the client credential only change together under lock.
type Manager struct {
	store   tokenstore.Store // Persisted token
	api     authapi.API      // Backend auth endpoints
	client  Credentialer     // HTTP client credential slot
	nowTime func() time.Time // nowTime function (injectable for testing)

	transitions *semaphore.Weighted
	notifyLock  sync.Mutex // Orders observer deliveries

	lock      sync.RWMutex
	state     State
	session   *Session
	rawToken  string
	epoch     uint64 // Bumped on every login or teardown, drops stale responses
	observers map[int]Observer
	nextID    int
}

// Option configures a Manager.
type Option func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager builds a manager in the Initializing state. Call Init before use.
func NewManager(store tokenstore.Store, api authapi.API, client Credentialer, options ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] token store is required")
	}
	if api == nil {
		return nil, errors.New("[NewManager] auth api is required")
	}
	if client == nil {
		return nil, errors.New("[NewManager] http client is required")
	}

	m := &Manager{
		store:       store,
		api:         api,
		client:      client,
		nowTime:     time.Now,
		transitions: semaphore.NewWeighted(1),
		state:       Initializing,
		observers:   make(map[int]Observer),
	}
	for _, opt := range options {
		opt(m)
	}
	if src, ok := client.(credentialSource); ok {
		src.SetCredentialSource(m.Token)
	}
	return m, nil
}

// Init restores the session from the token store. A missing, malformed or
// expired token leaves the manager Anonymous, clearing the store when a token
// was present. The only error is ctx ending before the manager could run.
func (m *Manager) Init(ctx context.Context) error {
	if err := m.transitions.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "[Manager.Init] waiting for pending transition")
	}
	defer m.transitions.Release(1)

	raw, err := m.store.Get(ctx)
	if err != nil {
		if !apperrors.Is(err, tokenstore.ErrNotFound) {
			log.Warn().Err(err).Msg("token store unavailable, starting logged out")
		}
		m.teardown(ctx, Anonymous)
		return nil
	}

	claims, err := token.Decode(raw)
	if err != nil {
		log.Info().Err(err).Msg("discarding malformed stored token")
		m.teardown(ctx, Anonymous)
		return nil
	}
	if token.IsExpired(claims, m.nowTime()) {
		log.Info().Str("subject", claims.Subject).Msg("discarding expired stored token")
		m.teardown(ctx, Anonymous)
		return nil
	}

	m.establish(ctx, raw, newSession(claims), false)
	log.Debug().Str("subject", claims.Subject).Str("role", string(claims.Role)).Msg("session restored")
	return nil
}

// Login authenticates against the backend. On failure nothing changes and a
// classified error is returned. A later Login replaces the current session.
func (m *Manager) Login(ctx context.Context, creds users.Credentials) error {
	if err := creds.Validate(); err != nil {
		return apperrors.New(apperrors.ErrValidation, err.Error(), err)
	}

	if err := m.transitions.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "[Manager.Login] waiting for pending transition")
	}
	defer m.transitions.Release(1)

	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		return errors.Wrap(err, "[Manager.Login]")
	}

	claims, err := token.Decode(resp.Token)
	if err != nil {
		return errors.Wrap(err, "[Manager.Login] backend returned an unreadable token")
	}
	if token.IsExpired(claims, m.nowTime()) {
		return apperrors.New(apperrors.ErrTokenExpired, "the server issued an expired token", nil)
	}

	session := newSession(claims)
	if session.DisplayName == "" && resp.User != nil {
		session.DisplayName = resp.User.Name
	}
	m.establish(ctx, resp.Token, session, true)
	log.Debug().Str("subject", claims.Subject).Str("role", string(claims.Role)).Msg("logged in")
	return nil
}

// Logout tells the backend (best effort) and then always tears down locally.
// Calling it while logged out is a no-op apart from clearing the store again.
func (m *Manager) Logout(ctx context.Context) {
	local := context.WithoutCancel(ctx)
	if err := m.transitions.Acquire(local, 1); err != nil {
		log.Error().Err(err).Msg("unable to serialize logout")
		return
	}
	defer m.transitions.Release(1)

	if m.IsAuthenticated() {
		if err := m.api.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
		}
	}
	m.teardown(local, Anonymous)
	log.Debug().Msg("logged out")
}

// HandleUnauthorized tears the session down after a 401, without calling the
// backend. It does nothing unless a session is live.
func (m *Manager) HandleUnauthorized() {
	if m.teardownIf(context.Background(), Anonymous, func() bool { return m.state == Authenticated }) {
		log.Info().Msg("session rejected by the backend, logged out")
	}
}

// UnauthorizedHandler is the callback to register on the HTTP client. A 401 for
// a credential that is no longer the live one is ignored.
func (m *Manager) UnauthorizedHandler() func(credential string) {
	return func(credential string) {
		torn := m.teardownIf(context.Background(), Anonymous, func() bool {
			return m.state == Authenticated && m.rawToken == credential
		})
		if torn {
			log.Info().Msg("session rejected by the backend, logged out")
		}
	}
}

// CheckExpiry moves a live session whose token has passed its expiry to
// Expired, clearing the store and credential. It returns the resulting state.
func (m *Manager) CheckExpiry(ctx context.Context) State {
	now := m.nowTime()
	if m.teardownIf(ctx, Expired, func() bool {
		return m.state == Authenticated && token.IsExpired(&m.session.Claims, now)
	}) {
		log.Info().Msg("session token expired")
	}
	return m.State()
}

// GetProfile fetches the current user and refreshes the session's display name.
func (m *Manager) GetProfile(ctx context.Context) (*users.User, error) {
	epoch, err := m.liveEpoch()
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.GetProfile]")
	}
	user, err := m.api.GetProfile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.GetProfile]")
	}
	if !m.refresh(epoch, user) {
		return nil, apperrors.New(apperrors.ErrSessionExpired, "the session ended while the profile was loading", nil)
	}
	return user, nil
}

// UpdateProfile saves profile changes and refreshes the session's display name.
// The role always comes from the token.
func (m *Manager) UpdateProfile(ctx context.Context, update users.ProfileUpdate) (*users.User, error) {
	if err := update.Validate(); err != nil {
		return nil, apperrors.New(apperrors.ErrValidation, err.Error(), err)
	}
	epoch, err := m.liveEpoch()
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.UpdateProfile]")
	}
	user, err := m.api.UpdateProfile(ctx, update)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.UpdateProfile]")
	}
	if !m.refresh(epoch, user) {
		return nil, apperrors.New(apperrors.ErrSessionExpired, "the session ended while the profile was saving", nil)
	}
	return user, nil
}

// ChangePassword changes the logged in user's password and returns the
// backend's confirmation message.
func (m *Manager) ChangePassword(ctx context.Context, change users.PasswordChange) (string, error) {
	if err := change.Validate(); err != nil {
		return "", apperrors.New(apperrors.ErrValidation, err.Error(), err)
	}
	if _, err := m.liveEpoch(); err != nil {
		return "", errors.Wrap(err, "[Manager.ChangePassword]")
	}
	msg, err := m.api.ChangePassword(ctx, change)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.ChangePassword]")
	}
	return msg, nil
}

// State is the current state. A live session whose token has passed its
// expiry reads as Expired even before CheckExpiry tears it down.
func (m *Manager) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.currentState()
}

// Session returns a copy of the live session, or nil.
func (m *Manager) Session() *Session {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.currentState() != Authenticated {
		return nil
	}
	return m.session.clone()
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == Authenticated
}

// Token returns the live raw token, or "".
func (m *Manager) Token() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.currentState() != Authenticated {
		return ""
	}
	return m.rawToken
}

// Subscribe registers an observer and returns a function that removes it.
// Observers run outside the manager's lock, one delivery at a time, and are
// given the state as it is when they run, so the last call always carries the
// current state. They must not start a transition themselves.
func (m *Manager) Subscribe(observer Observer) func() {
	m.lock.Lock()
	defer m.lock.Unlock()
	id := m.nextID
	m.nextID++
	m.observers[id] = observer
	return func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		delete(m.observers, id)
	}
}

func (m *Manager) currentState() State {
	if m.state == Authenticated && token.IsExpired(&m.session.Claims, m.nowTime()) {
		return Expired
	}
	return m.state
}

// establish makes raw the live token. persist is false when the token came
// from the store in the first place.
func (m *Manager) establish(ctx context.Context, raw string, session *Session, persist bool) {
	m.lock.Lock()
	if persist {
		if err := m.store.Set(ctx, raw); err != nil {
			log.Warn().Err(err).Msg("unable to persist token, the session will not survive a restart")
		}
	}
	m.epoch++
	m.state = Authenticated
	m.session = session
	m.rawToken = raw
	m.client.SetCredential(raw)
	m.lock.Unlock()

	m.notify()
}

func (m *Manager) teardown(ctx context.Context, to State) {
	m.teardownIf(ctx, to, func() bool { return true })
}

// teardownIf clears token, session and credential when cond holds. cond runs
// under the lock.
func (m *Manager) teardownIf(ctx context.Context, to State, cond func() bool) bool {
	m.lock.Lock()
	if !cond() {
		m.lock.Unlock()
		return false
	}
	if err := m.store.Clear(ctx); err != nil {
		log.Warn().Err(err).Msg("unable to clear stored token")
	}
	changed := m.state != to
	m.epoch++
	m.state = to
	m.session = nil
	m.rawToken = ""
	m.client.ClearCredential()
	m.lock.Unlock()

	if changed {
		m.notify()
	}
	return true
}

// liveEpoch returns the epoch of the live session, or ErrNotAuthenticated.
func (m *Manager) liveEpoch() (uint64, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.currentState() != Authenticated {
		return 0, apperrors.New(apperrors.ErrNotAuthenticated, "", nil)
	}
	return m.epoch, nil
}

// refresh applies a profile response unless the session changed since epoch.
func (m *Manager) refresh(epoch uint64, user *users.User) bool {
	m.lock.Lock()
	if m.epoch != epoch || m.state != Authenticated {
		m.lock.Unlock()
		log.Debug().Msg("dropping profile response for a session that has ended")
		return false
	}
	if name := utils.Value(user).Name; name != "" {
		m.session.DisplayName = name
	}
	m.lock.Unlock()

	m.notify()
	return true
}

// notify tells every observer the state read at delivery time. Deliveries
// never overlap, so a slower notifier cannot report an older state last.
func (m *Manager) notify() {
	m.notifyLock.Lock()
	defer m.notifyLock.Unlock()

	m.lock.RLock()
	state := m.currentState()
	observers := make([]Observer, 0, len(m.observers))
	for _, o := range m.observers {
		observers = append(observers, o)
	}
	m.lock.RUnlock()

	for _, o := range observers {
		o(state)
	}
}
