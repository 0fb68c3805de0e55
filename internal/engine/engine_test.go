package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-fortune/internal/astro"
	"github.com/tartampluch/go-fortune/internal/engine"
	"github.com/tartampluch/go-fortune/internal/locale"
	"github.com/tartampluch/go-fortune/internal/oracle"
	"github.com/tartampluch/go-fortune/internal/store"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing. Pass a pointer to move time forward.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CurrentTime
}

func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CurrentTime = t
}

func (m *MockClock) Advance(d time.Duration) {
	m.Set(m.Now().Add(d))
}

// MockGenerator simulates the text generation client using `testify/mock`.
type MockGenerator struct {
	mock.Mock
}

// GenerateText implements the oracle.Generator interface.
func (m *MockGenerator) GenerateText(ctx context.Context, systemPrompt, userPrompt string, opts oracle.Options) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, opts)
	return args.String(0), args.Error(1)
}

// faultyStore wraps a Memory store and fails selected operations.
type faultyStore struct {
	*store.Memory
	mu       sync.Mutex
	saveErrs map[string]error
	loadErr  error
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Memory: store.NewMemory(), saveErrs: map[string]error{}}
}

func (f *faultyStore) failSave(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErrs[key] = err
}

func (f *faultyStore) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErrs = map[string]error{}
	f.loadErr = nil
}

func (f *faultyStore) Save(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	err := f.saveErrs[key]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Memory.Save(ctx, key, value)
}

func (f *faultyStore) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	err := f.loadErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Memory.Load(ctx, key)
}

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

var (
	en       = locale.New("en")
	localeFR = locale.New("fr")
)

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

// testProfile is the 1990-05-15 New York profile built entirely from fallbacks.
func testProfile(t *testing.T) *engine.Profile {
	t.Helper()
	bd, err := astro.NewBirthDetails(utc(1990, time.May, 15, 0, 0), "", astro.Location{
		Latitude: 40.7128, Longitude: -74.006, Timezone: "America/New_York",
	})
	require.NoError(t, err)

	p, err := engine.NewAssembler(&MockClock{CurrentTime: utc(2024, time.January, 1, 9, 0)}, nil, en).
		CreateProfile(context.Background(), bd)
	require.NoError(t, err)
	return p
}

func newManager(clock engine.Clock, st store.Store, gen oracle.Generator) *engine.Manager {
	m := engine.NewManager(engine.ManagerOptions{Clock: clock, Store: st, Generator: gen, Catalog: en})
	m.Initialize(context.Background())
	return m
}
