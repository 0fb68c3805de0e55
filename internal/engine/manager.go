package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-fortune/internal/config"
	"github.com/tartampluch/go-fortune/internal/locale"
	"github.com/tartampluch/go-fortune/internal/oracle"
	"github.com/tartampluch/go-fortune/internal/store"
)

// State is the coarse lifecycle position of the Manager.
type State string

const (
	StateNoFortune         State = "no_fortune"
	StateFortuneActive     State = "fortune_active"
	StateFortuneExpired    State = "fortune_expired"
	StateConnectivityShown State = "connectivity_error_shown"
)

// appState is the persisted cooldown bookkeeping.
type appState struct {
	LastFortuneDate  *time.Time `json:"lastFortuneDate"`
	PreviousFortunes []string   `json:"previousFortunes"`
}

// ManagerOptions are the collaborators of a Manager.
type ManagerOptions struct {
	Clock     Clock
	Store     store.Store
	Generator oracle.Generator // May be nil: fortunes then come from the local catalogue.
	Catalog   *locale.Catalog
}

// Manager owns the daily fortune lifecycle. Callers share one instance.
type Manager struct {
	clock   Clock
	store   store.Store
	gen     oracle.Generator
	catalog *locale.Catalog

	// genMu serializes generation so a concurrent second caller observes the cooldown.
	genMu sync.Mutex

	mu           sync.RWMutex
	current      *Fortune
	lastFortune  time.Time
	previous     []string
	connectivity *Fortune
}

// NewManager returns a Manager with empty state. Call Initialize to hydrate it.
func NewManager(opts ManagerOptions) *Manager {
	clock := opts.Clock
	if clock == nil {
		clock = RealClock{}
	}
	cat := opts.Catalog
	if cat == nil {
		cat = locale.New(config.DefaultLanguage)
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}
	return &Manager{
		clock:   clock,
		store:   st,
		gen:     opts.Generator,
		catalog: cat,
	}
}

// Initialize loads the persisted fortune and cooldown state.
// An expired fortune is discarded. Storage failures leave the Manager empty and are only logged.
func (m *Manager) Initialize(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompFortune)

	current, state, err := m.load(ctx)
	if err != nil {
		m.mu.Lock()
		m.current, m.lastFortune, m.previous = nil, time.Time{}, nil
		m.mu.Unlock()
		log.WarnContext(ctx, config.MsgManagerReset, config.LogKeyError, err)
		return
	}

	now := m.clock.Now()
	if current != nil && current.Expired(now) {
		log.InfoContext(ctx, config.MsgFortuneExpired, config.LogKeyFortuneID, current.ID)
		current = nil
		if err := m.store.Remove(ctx, config.StoreKeyCurrentFortune); err != nil {
			log.WarnContext(ctx, config.MsgRemoveFailed, config.LogKeyError, err)
		}
	}

	m.mu.Lock()
	m.current = current
	m.lastFortune = time.Time{}
	if state.LastFortuneDate != nil {
		m.lastFortune = *state.LastFortuneDate
	}
	m.previous = lastN(state.PreviousFortunes, config.MaxPreviousFortunes)
	m.mu.Unlock()

	log.InfoContext(ctx, config.MsgManagerInit, config.LogKeyState, m.State())
}

func (m *Manager) load(ctx context.Context) (*Fortune, appState, error) {
	var state appState

	raw, err := m.store.Load(ctx, config.StoreKeyCurrentFortune)
	if err != nil {
		return nil, state, err
	}
	var current *Fortune
	if raw != nil {
		current = new(Fortune)
		if err := json.Unmarshal(raw, current); err != nil {
			return nil, state, err
		}
	}

	raw, err = m.store.Load(ctx, config.StoreKeyAppState)
	if err != nil {
		return nil, state, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &state); err != nil {
			return nil, state, err
		}
	}
	return current, state, nil
}

// CanGenerateNewFortune reports whether a new fortune may be opened now.
func (m *Manager) CanGenerateNewFortune() bool {
	now := m.clock.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.canGenerateLocked(now)
}

func (m *Manager) canGenerateLocked(now time.Time) bool {
	if m.current != nil && m.current.Expired(now) {
		return true
	}
	return CanGenerateFortuneToday(now, m.lastFortune)
}

// GenerateFortune opens today's fortune for profile.
//
// A text generation failure does not fail the call: a connectivity_error fortune
// is returned instead, nothing is persisted and the daily quota is not consumed.
func (m *Manager) GenerateFortune(ctx context.Context, profile *Profile) (*Fortune, error) {
	if profile == nil {
		return nil, &FortuneError{Code: CodeNoProfile}
	}

	m.genMu.Lock()
	defer m.genMu.Unlock()

	return m.generate(ctx, profile)
}

func (m *Manager) generate(ctx context.Context, profile *Profile) (*Fortune, error) {
	log := slog.With(config.LogKeyComponent, config.CompFortune)
	now := m.clock.Now()

	m.mu.RLock()
	allowed := m.canGenerateLocked(now)
	previous := slices.Clone(m.previous)
	m.mu.RUnlock()

	if !allowed {
		return nil, &FortuneError{Code: CodeCooldownActive}
	}

	message, source, err := m.compose(ctx, profile, previous, now)
	if err != nil {
		log.WarnContext(ctx, config.MsgFortuneOffline, config.LogKeyError, err)
		f := m.connectivityFortune(now)
		m.mu.Lock()
		m.connectivity = f
		m.mu.Unlock()
		return f.clone(), nil
	}

	f := &Fortune{
		ID:          uuid.NewString(),
		Message:     truncateMessage(message),
		GeneratedAt: now,
		ExpiresAt:   CalculateFortuneExpiration(now),
		Source:      source,
		DecorativeElements: Decorations{
			Ideogram:  AnimalIdeogram(profile.Zodiac.Animal),
			Signature: profile.MysticalNickname,
		},
	}

	m.mu.Lock()
	m.current = f
	m.connectivity = nil
	m.lastFortune = now
	m.previous = lastN(append(m.previous, f.Message), config.MaxPreviousFortunes)
	state := m.appStateLocked()
	m.mu.Unlock()

	if err := m.saveJSON(ctx, config.StoreKeyCurrentFortune, f); err != nil {
		return nil, &FortuneError{Code: CodeStorageError, Err: err}
	}
	if err := m.saveJSON(ctx, config.StoreKeyAppState, state); err != nil {
		return nil, &FortuneError{Code: CodeCacheError, Err: err}
	}

	log.InfoContext(ctx, config.MsgFortuneGenerated,
		config.LogKeyFortuneID, f.ID,
		config.LogKeySource, f.Source,
		config.LogKeyExpiresAt, f.ExpiresAt,
	)
	return f.clone(), nil
}

// compose asks the text generator for a message. A locally missing API key selects a
// catalogue fortune; any other generator error, a rejected key included, is returned.
func (m *Manager) compose(ctx context.Context, profile *Profile, previous []string, now time.Time) (string, Source, error) {
	if m.gen == nil {
		return fallbackFortune(m.catalog, profile, now, previous), SourceFallback, nil
	}

	text, err := m.gen.GenerateText(ctx, systemPrompt, fortunePrompt(profile, previous, m.catalog.Tag()), oracle.Options{
		MaxTokens:   config.FortuneMaxTokens,
		Temperature: config.FortuneTemperature,
	})
	switch {
	case oracle.IsMissingKey(err):
		slog.InfoContext(ctx, config.MsgFortuneFallback, config.LogKeyComponent, config.CompFortune)
		return fallbackFortune(m.catalog, profile, now, previous), SourceFallback, nil
	case err != nil:
		return "", "", err
	}
	return text, SourceAI, nil
}

func (m *Manager) connectivityFortune(now time.Time) *Fortune {
	return &Fortune{
		ID:          uuid.NewString(),
		Message:     m.catalog.Msg(config.TKeyConnectivity, nil),
		GeneratedAt: now,
		ExpiresAt:   now.Add(config.ConnectivityExpiry),
		Source:      SourceConnectivityError,
		DecorativeElements: Decorations{
			Ideogram:  config.ConnectivityIdeogram,
			Signature: config.ConnectivitySignature,
		},
	}
}

// GetCachedFortune returns the current fortune, or nil when there is none or it has expired.
// An expired fortune is cleared in the background.
func (m *Manager) GetCachedFortune() *Fortune {
	now := m.clock.Now()

	m.mu.RLock()
	f := m.current
	m.mu.RUnlock()

	if f == nil {
		return nil
	}
	if f.Expired(now) {
		go m.discardExpired(f.ID)
		return nil
	}
	return f.clone()
}

func (m *Manager) discardExpired(id string) {
	m.mu.Lock()
	if m.current == nil || m.current.ID != id {
		m.mu.Unlock()
		return
	}
	m.current = nil
	m.mu.Unlock()

	slog.Info(config.MsgFortuneExpired, config.LogKeyComponent, config.CompFortune, config.LogKeyFortuneID, id)
	if err := m.store.Remove(context.Background(), config.StoreKeyCurrentFortune); err != nil {
		slog.Warn(config.MsgRemoveFailed, config.LogKeyComponent, config.CompFortune, config.LogKeyError, err)
	}
}

// ForceRefreshFortune opens a new fortune regardless of the cooldown.
// If no real fortune can be produced the previous state is restored.
func (m *Manager) ForceRefreshFortune(ctx context.Context, profile *Profile) (*Fortune, error) {
	if profile == nil {
		return nil, &FortuneError{Code: CodeNoProfile}
	}

	m.genMu.Lock()
	defer m.genMu.Unlock()

	m.mu.Lock()
	saved := snapshot{current: m.current, lastFortune: m.lastFortune, previous: slices.Clone(m.previous)}
	m.current, m.lastFortune = nil, time.Time{}
	m.mu.Unlock()

	f, err := m.generate(ctx, profile)
	if err != nil || f.Source == SourceConnectivityError {
		m.mu.Lock()
		m.current, m.lastFortune, m.previous = saved.current, saved.lastFortune, saved.previous
		m.mu.Unlock()
		slog.WarnContext(ctx, config.MsgForceRestore, config.LogKeyComponent, config.CompFortune, config.LogKeyError, err)
	}
	if errors.Is(err, ErrCache) {
		// The new fortune reached the store before the app state failed.
		m.restorePersisted(ctx, saved.current)
	}
	return f, err
}

// restorePersisted puts the stored fortune back in line with the restored in-memory state.
func (m *Manager) restorePersisted(ctx context.Context, current *Fortune) {
	var err error
	if current == nil {
		err = m.store.Remove(ctx, config.StoreKeyCurrentFortune)
	} else {
		err = m.saveJSON(ctx, config.StoreKeyCurrentFortune, current)
	}
	if err != nil {
		slog.WarnContext(ctx, config.MsgRestoreFailed, config.LogKeyComponent, config.CompFortune, config.LogKeyError, err)
	}
}

type snapshot struct {
	current     *Fortune
	lastFortune time.Time
	previous    []string
}

// ClearFortune discards the current fortune and lifts the cooldown.
// The previous-fortunes ring is kept so later fortunes still avoid repetition.
func (m *Manager) ClearFortune(ctx context.Context) error {
	m.genMu.Lock()
	defer m.genMu.Unlock()

	m.mu.Lock()
	m.current, m.lastFortune, m.connectivity = nil, time.Time{}, nil
	state := m.appStateLocked()
	m.mu.Unlock()

	if err := m.store.Remove(ctx, config.StoreKeyCurrentFortune); err != nil {
		return err
	}
	if err := m.saveJSON(ctx, config.StoreKeyAppState, state); err != nil {
		return err
	}

	slog.InfoContext(ctx, config.MsgFortuneCleared, config.LogKeyComponent, config.CompFortune)
	return nil
}

// GetTimeUntilNextFortune returns how long until a new fortune may be opened (zero if now).
func (m *Manager) GetTimeUntilNextFortune() time.Duration {
	now := m.clock.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.canGenerateLocked(now) {
		return 0
	}
	next := NextDailyReset(m.lastFortune.In(now.Location()))
	if m.current != nil && m.current.ExpiresAt.Before(next) {
		next = m.current.ExpiresAt
	}
	return next.Sub(now)
}

// GetFormattedTimeUntilNext renders GetTimeUntilNextFortune as "Xh Ym", or the
// translated "Available now".
func (m *Manager) GetFormattedTimeUntilNext() string {
	d := m.GetTimeUntilNextFortune()
	if d <= 0 {
		return m.catalog.Msg(config.TKeyAvailableNow, nil)
	}
	return fmt.Sprintf(config.FormatCountdown, int(d.Hours()), int(d.Minutes())%60)
}

// State reports the lifecycle position at the current time.
func (m *Manager) State() State {
	now := m.clock.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case m.current != nil && m.current.Expired(now):
		return StateFortuneExpired
	case m.current != nil:
		return StateFortuneActive
	case m.connectivity != nil && !m.connectivity.Expired(now):
		return StateConnectivityShown
	default:
		return StateNoFortune
	}
}

// LastFortuneDate returns when the last fortune was opened, and false if never.
func (m *Manager) LastFortuneDate() (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastFortune, !m.lastFortune.IsZero()
}

// PreviousFortunes returns the recent messages, oldest first.
func (m *Manager) PreviousFortunes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.previous)
}

func (m *Manager) appStateLocked() appState {
	s := appState{PreviousFortunes: slices.Clone(m.previous)}
	if !m.lastFortune.IsZero() {
		t := m.lastFortune
		s.LastFortuneDate = &t
	}
	return s
}

func (m *Manager) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.store.Save(ctx, key, data)
}

func (f *Fortune) clone() *Fortune {
	c := *f
	return &c
}

func lastN(list []string, n int) []string {
	if len(list) > n {
		list = list[len(list)-n:]
	}
	return slices.Clone(list)
}
