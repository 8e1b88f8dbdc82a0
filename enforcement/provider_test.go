package enforcement_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinforge/thing-engine-go/enforcement"
	"github.com/twinforge/thing-engine-go/things/model"
)

var testPolicyID = model.MustPolicyID("org.example:policy-1")

// countingLoader counts backing loads and can be gated to keep loads in flight.
type countingLoader struct {
	calls atomic.Int64
	gate  chan struct{} // loads block on the gate when set
	fail  atomic.Bool
	found atomic.Bool
}

func newCountingLoader() *countingLoader {
	l := &countingLoader{}
	l.found.Store(true)

	return l
}

func (l *countingLoader) load(ctx context.Context, id model.PolicyID) (*enforcement.Enforcer, bool, error) {
	l.calls.Add(1)

	if l.gate != nil {
		select {
		case <-l.gate:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	if l.fail.Load() {
		return nil, false, errors.New("policy store unreachable")
	}
	if !l.found.Load() {
		return nil, false, nil
	}

	enforcer := enforcement.BuildEnforcer(enforcement.Policy{ID: id})

	return enforcer, true, nil
}

func newTestProvider(t *testing.T, loader *countingLoader, options ...enforcement.ProviderOption) *enforcement.Provider {
	t.Helper()

	provider, err := enforcement.NewProvider(loader.load, options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })

	return provider
}

func Test_Provider_CacheHitAfterFirstLoad(t *testing.T) {
	// arrange
	loader := newCountingLoader()
	provider := newTestProvider(t, loader)

	// act
	first, foundFirst, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)
	second, foundSecond, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)

	// assert
	assert.True(t, foundFirst)
	assert.True(t, foundSecond)
	assert.Same(t, first, second, "the cached enforcer instance is reused")
	assert.Equal(t, int64(1), loader.calls.Load())
}

func Test_Provider_ConcurrentGetsCoalesceIntoOneLoad(t *testing.T) {
	// arrange - the gate keeps the load in flight until all Gets are queued
	loader := newCountingLoader()
	loader.gate = make(chan struct{})
	provider := newTestProvider(t, loader)

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)

	// act
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = provider.Get(context.Background(), testPolicyID)
		}()
	}

	assert.Eventually(t, func() bool { return loader.calls.Load() == 1 },
		time.Second, time.Millisecond, "exactly one load starts")
	close(loader.gate)
	wg.Wait()

	// assert
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int64(1), loader.calls.Load())
}

func Test_Provider_AbsentPolicyIsCachedAsAbsent(t *testing.T) {
	// arrange
	loader := newCountingLoader()
	loader.found.Store(false)
	provider := newTestProvider(t, loader)

	// act
	_, found, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)
	_, foundAgain, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)

	// assert - the absent marker is a cache entry, not a repeated miss
	assert.False(t, found)
	assert.False(t, foundAgain)
	assert.Equal(t, int64(1), loader.calls.Load())
}

func Test_Provider_LoadErrorsAreNeverCached(t *testing.T) {
	// arrange
	loader := newCountingLoader()
	loader.fail.Store(true)
	provider := newTestProvider(t, loader)

	// act - first Get fails
	_, _, err := provider.Get(context.Background(), testPolicyID)

	// assert
	var unavailable *enforcement.EnforcerUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 503, unavailable.Status())

	// act - the store recovers, the next Get loads again
	loader.fail.Store(false)
	_, found, err := provider.Get(context.Background(), testPolicyID)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), loader.calls.Load())
}

func Test_Provider_InvalidateReportsEntryPresence(t *testing.T) {
	loader := newCountingLoader()
	provider := newTestProvider(t, loader)

	assert.False(t, provider.Invalidate(context.Background(), testPolicyID, "corr-1"),
		"nothing cached yet")

	_, _, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)

	assert.True(t, provider.Invalidate(context.Background(), testPolicyID, "corr-2"))
}

func Test_Provider_InvalidatedEntryIsReloaded(t *testing.T) {
	// arrange
	loader := newCountingLoader()
	provider := newTestProvider(t, loader)

	_, _, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)

	// act
	provider.Invalidate(context.Background(), testPolicyID, "corr-1")
	_, found, err := provider.Get(context.Background(), testPolicyID)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(2), loader.calls.Load())
}

func Test_Provider_InvalidationDuringLoadServesWaitersButDropsResult(t *testing.T) {
	// arrange - a load is kept in flight while the invalidation arrives
	loader := newCountingLoader()
	loader.gate = make(chan struct{})
	provider := newTestProvider(t, loader)

	var wg sync.WaitGroup
	wg.Add(1)
	var getErr error
	go func() {
		defer wg.Done()
		_, _, getErr = provider.Get(context.Background(), testPolicyID)
	}()

	assert.Eventually(t, func() bool { return loader.calls.Load() == 1 },
		time.Second, time.Millisecond)

	// act - invalidate while the load is still running, then let it finish
	provider.Invalidate(context.Background(), testPolicyID, "corr-1")
	close(loader.gate)
	wg.Wait()

	// assert - the waiter was served from the stale load
	require.NoError(t, getErr)

	// but the result was not retained: the next Get loads fresh
	loader.gate = nil
	_, _, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loader.calls.Load())
}

// recordingBroadcast is an in-process Broadcast test double.
type recordingBroadcast struct {
	mu        sync.Mutex
	published []enforcement.InvalidationMessage
	handler   func(enforcement.InvalidationMessage)
}

func (b *recordingBroadcast) Publish(_ context.Context, _ string, msg enforcement.InvalidationMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, msg)

	return nil
}

func (b *recordingBroadcast) Subscribe(
	_ string, handler func(enforcement.InvalidationMessage),
) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler

	return func() {}, nil
}

func (b *recordingBroadcast) deliver(msg enforcement.InvalidationMessage) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	handler(msg)
}

func Test_Provider_PublishInvalidation_FansOutOverBroadcast(t *testing.T) {
	// arrange
	loader := newCountingLoader()
	broadcast := &recordingBroadcast{}
	provider := newTestProvider(t, loader, enforcement.WithBroadcast(broadcast, ""))

	_, _, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)

	// act
	removed, err := provider.PublishInvalidation(context.Background(), testPolicyID, "corr-1")

	// assert
	require.NoError(t, err)
	assert.True(t, removed)
	require.Len(t, broadcast.published, 1)
	assert.Equal(t, testPolicyID.String(), broadcast.published[0].PolicyID)
	assert.Equal(t, "corr-1", broadcast.published[0].CorrelationID)
}

func Test_Provider_IncomingBroadcastMessageInvalidatesLocally(t *testing.T) {
	// arrange
	loader := newCountingLoader()
	broadcast := &recordingBroadcast{}
	provider := newTestProvider(t, loader, enforcement.WithBroadcast(broadcast, ""))

	_, _, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)

	// act - another node published an invalidation for the same policy
	broadcast.deliver(enforcement.InvalidationMessage{PolicyID: testPolicyID.String(), CorrelationID: "corr-remote"})

	// assert - the local entry is gone, the next Get loads again
	assert.Eventually(t, func() bool {
		_, _, getErr := provider.Get(context.Background(), testPolicyID)
		return getErr == nil && loader.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

// manualWatch hands namespace changes to the provider under test control.
type manualWatch struct {
	changes chan enforcement.NamespaceChange
}

func newManualWatch() *manualWatch {
	return &manualWatch{changes: make(chan enforcement.NamespaceChange)}
}

func (w *manualWatch) Changes(context.Context) (<-chan enforcement.NamespaceChange, error) {
	return w.changes, nil
}

func Test_Provider_BlockedNamespaceRejectsGets(t *testing.T) {
	// arrange
	loader := newCountingLoader()
	watch := newManualWatch()
	provider := newTestProvider(t, loader, enforcement.WithNamespaceWatch(watch))

	// act
	watch.changes <- enforcement.NamespaceChange{Namespace: "org.example", Blocked: true}

	// assert - once the change is processed, Gets are rejected without a load
	assert.Eventually(t, func() bool {
		_, _, err := provider.Get(context.Background(), testPolicyID)
		var blocked *enforcement.NamespaceBlockedError
		return errors.As(err, &blocked) && blocked.Status() == 403
	}, time.Second, 5*time.Millisecond)

	assert.Zero(t, loader.calls.Load(), "no load for a blocked namespace")
}

func Test_Provider_BlockingEvictsCachedEnforcersOfTheNamespace(t *testing.T) {
	// arrange - the enforcer is cached before the namespace gets blocked
	loader := newCountingLoader()
	watch := newManualWatch()
	provider := newTestProvider(t, loader, enforcement.WithNamespaceWatch(watch))

	_, _, err := provider.Get(context.Background(), testPolicyID)
	require.NoError(t, err)
	require.Equal(t, int64(1), loader.calls.Load())

	// act - block, then unblock
	watch.changes <- enforcement.NamespaceChange{Namespace: "org.example", Blocked: true}
	assert.Eventually(t, func() bool {
		_, _, getErr := provider.Get(context.Background(), testPolicyID)
		var blocked *enforcement.NamespaceBlockedError
		return errors.As(getErr, &blocked)
	}, time.Second, 5*time.Millisecond)

	watch.changes <- enforcement.NamespaceChange{Namespace: "org.example", Blocked: false}

	// assert - the pre-block entry was evicted, so unblocking forces a reload
	assert.Eventually(t, func() bool {
		_, found, getErr := provider.Get(context.Background(), testPolicyID)
		return getErr == nil && found && loader.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func Test_Provider_GetTimeoutSurfacesAsUnavailable(t *testing.T) {
	// arrange - the load never finishes within the get timeout
	loader := newCountingLoader()
	loader.gate = make(chan struct{})
	t.Cleanup(func() { close(loader.gate) })
	provider := newTestProvider(t, loader, enforcement.WithGetTimeout(20*time.Millisecond))

	// act
	_, _, err := provider.Get(context.Background(), testPolicyID)

	// assert
	var unavailable *enforcement.EnforcerUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func Test_Provider_GetAfterCloseFails(t *testing.T) {
	loader := newCountingLoader()
	provider, err := enforcement.NewProvider(loader.load)
	require.NoError(t, err)

	require.NoError(t, provider.Close())
	require.NoError(t, provider.Close(), "close is idempotent")

	_, _, err = provider.Get(context.Background(), testPolicyID)

	var unavailable *enforcement.EnforcerUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, enforcement.ErrProviderClosed)
}

func Test_Provider_RejectsInvalidConfiguration(t *testing.T) {
	loader := newCountingLoader()

	_, err := enforcement.NewProvider(nil)
	assert.Error(t, err, "nil loader")

	_, err = enforcement.NewProvider(loader.load, enforcement.WithCache(0, time.Minute))
	assert.Error(t, err, "zero capacity")

	_, err = enforcement.NewProvider(loader.load, enforcement.WithGetTimeout(0))
	assert.Error(t, err, "zero get timeout")
}
