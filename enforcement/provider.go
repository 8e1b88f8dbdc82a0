package enforcement

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/twinforge/thing-engine-go/observability"
	"github.com/twinforge/thing-engine-go/things/model"
)

const (
	defaultCacheCapacity = 20000
	defaultCacheTTL      = 10 * time.Minute
	defaultGetTimeout    = 10 * time.Second
	defaultLoadTimeout   = 60 * time.Second
	defaultWatchBackoff  = time.Second
)

const (
	metricCacheHits        = "enforcement_cache_hits_total"
	metricCacheMisses      = "enforcement_cache_misses_total"
	metricCacheLoads       = "enforcement_cache_loads_total"
	metricInvalidations    = "enforcement_cache_invalidations_total"
	metricBlockedEvictions = "enforcement_namespace_evictions_total"
)

// Loader resolves the enforcer for a policy from the backing policy store.
// found is false when the policy does not exist; the provider caches that as
// an explicit absent marker. Errors are never cached.
type Loader func(ctx context.Context, id model.PolicyID) (*Enforcer, bool, error)

// Provider is a caching policy enforcer provider. Concurrent Get calls for the
// same cold key coalesce into exactly one backing load; invalidations are
// linearized against load completions through the provider's mailbox
// goroutine, so a load started before an invalidation can still serve its
// waiters but its result is never retained.
type Provider struct {
	loader    Loader
	cache     *expirable.LRU[string, cacheEntry]
	mailbox   chan message
	done      chan struct{}
	cancel    context.CancelFunc
	group     *errgroup.Group
	closeOnce sync.Once
	closeErr  error

	broadcast   Broadcast
	topic       string
	unsubscribe func()
	watch       NamespaceWatch

	capacity     int
	ttl          time.Duration
	getTimeout   time.Duration
	loadTimeout  time.Duration
	watchBackoff time.Duration

	logger  observability.Logger
	metrics observability.MetricsCollector
}

type cacheEntry struct {
	enforcer  *Enforcer
	present   bool
	namespace string
}

type getReply struct {
	enforcer *Enforcer
	found    bool
	err      error
}

type message interface{ isMessage() }

type getMsg struct {
	id    model.PolicyID
	reply chan getReply
}

type invalidateMsg struct {
	id            model.PolicyID
	correlationID string
	reply         chan bool
}

type loadDoneMsg struct {
	id       model.PolicyID
	gen      uint64
	enforcer *Enforcer
	found    bool
	err      error
}

type namespaceMsg struct {
	change NamespaceChange
}

func (getMsg) isMessage()        {}
func (invalidateMsg) isMessage() {}
func (loadDoneMsg) isMessage()   {}
func (namespaceMsg) isMessage()  {}

// pendingLoad tracks one in-flight backing load. stale is set when an
// invalidation (or namespace block) arrived after the load started: waiters
// still receive the result, the cache does not.
type pendingLoad struct {
	gen       uint64
	namespace string
	stale     bool
	waiters   []chan getReply
}

// NewProvider creates a Provider and starts its background goroutines: the
// mailbox loop and, when configured, the namespace watch loop. A configured
// broadcast is subscribed for invalidation fan-in immediately.
func NewProvider(loader Loader, options ...ProviderOption) (*Provider, error) {
	if loader == nil {
		return nil, errProviderConfig("loader must not be nil")
	}

	p := &Provider{
		loader:       loader,
		mailbox:      make(chan message),
		done:         make(chan struct{}),
		topic:        InvalidationTopic,
		capacity:     defaultCacheCapacity,
		ttl:          defaultCacheTTL,
		getTimeout:   defaultGetTimeout,
		loadTimeout:  defaultLoadTimeout,
		watchBackoff: defaultWatchBackoff,
		logger:       observability.NopLogger{},
		metrics:      observability.NopMetricsCollector{},
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	p.cache = expirable.NewLRU[string, cacheEntry](p.capacity, nil, p.ttl)

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	group, groupCtx := errgroup.WithContext(ctx)
	p.group = group

	group.Go(func() error {
		p.run(groupCtx)
		return nil
	})
	if p.watch != nil {
		group.Go(func() error {
			p.watchNamespaces(groupCtx)
			return nil
		})
	}

	if p.broadcast != nil {
		unsubscribe, err := p.broadcast.Subscribe(p.topic, p.onInvalidationMessage)
		if err != nil {
			cancel()
			close(p.done)
			_ = group.Wait()

			return nil, err
		}
		p.unsubscribe = unsubscribe
	}

	return p, nil
}

// Get returns the enforcer for the policy, resolving it through the backing
// loader on a cache miss. found is false when the policy does not exist. The
// call is bounded by the provider's get timeout; overruns and load failures
// surface as EnforcerUnavailableError.
func (p *Provider) Get(ctx context.Context, id model.PolicyID) (*Enforcer, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.getTimeout)
	defer cancel()

	reply := make(chan getReply, 1)

	select {
	case p.mailbox <- getMsg{id: id, reply: reply}:
	case <-p.done:
		return nil, false, &EnforcerUnavailableError{PolicyID: id, Cause: ErrProviderClosed}
	case <-ctx.Done():
		return nil, false, &EnforcerUnavailableError{PolicyID: id, Cause: ctx.Err()}
	}

	select {
	case r := <-reply:
		return r.enforcer, r.found, r.err
	case <-p.done:
		return nil, false, &EnforcerUnavailableError{PolicyID: id, Cause: ErrProviderClosed}
	case <-ctx.Done():
		return nil, false, &EnforcerUnavailableError{PolicyID: id, Cause: ctx.Err()}
	}
}

// Invalidate removes the cache entry for the policy and reports whether an
// entry was actually present. An in-flight load for the same key is marked
// stale: its waiters are served, its result is not retained.
func (p *Provider) Invalidate(ctx context.Context, id model.PolicyID, correlationID string) bool {
	reply := make(chan bool, 1)

	select {
	case p.mailbox <- invalidateMsg{id: id, correlationID: correlationID, reply: reply}:
	case <-p.done:
		return false
	case <-ctx.Done():
		return false
	}

	select {
	case removed := <-reply:
		return removed
	case <-p.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// PublishInvalidation invalidates locally and fans the invalidation out to the
// cluster over the broadcast. The returned bool acknowledges whether a local
// entry was removed.
func (p *Provider) PublishInvalidation(ctx context.Context, id model.PolicyID, correlationID string) (bool, error) {
	removed := p.Invalidate(ctx, id, correlationID)

	if p.broadcast != nil {
		msg := InvalidationMessage{PolicyID: id.String(), CorrelationID: correlationID}
		if err := p.broadcast.Publish(ctx, p.topic, msg); err != nil {
			return removed, err
		}
	}

	return removed, nil
}

// Close stops the background goroutines and fails pending waiters. It is
// idempotent.
func (p *Provider) Close() error {
	p.closeOnce.Do(func() {
		if p.unsubscribe != nil {
			p.unsubscribe()
		}
		close(p.done)
		p.cancel()
		p.closeErr = p.group.Wait()
	})

	return p.closeErr
}

func (p *Provider) onInvalidationMessage(msg InvalidationMessage) {
	id, err := model.ParsePolicyID(msg.PolicyID)
	if err != nil {
		p.logger.Warn("dropping invalidation with unparsable policy id",
			"policyId", msg.PolicyID, "correlationId", msg.CorrelationID)
		return
	}

	select {
	case p.mailbox <- invalidateMsg{id: id, correlationID: msg.CorrelationID, reply: make(chan bool, 1)}:
	case <-p.done:
	}
}

// run is the mailbox loop: the single coordination point for cache reads,
// invalidations, load completions, and namespace changes.
func (p *Provider) run(ctx context.Context) {
	loads := make(map[string]*pendingLoad)
	orphans := make(map[uint64]*pendingLoad)
	blocked := make(map[string]struct{})
	var nextGen uint64

	failAll := func() {
		for key, l := range loads {
			p.failWaiters(l)
			delete(loads, key)
		}
		for gen, l := range orphans {
			p.failWaiters(l)
			delete(orphans, gen)
		}
	}

	for {
		select {
		case <-ctx.Done():
			failAll()
			return

		case msg := <-p.mailbox:
			switch m := msg.(type) {
			case getMsg:
				p.handleGet(ctx, m, loads, orphans, blocked, &nextGen)
			case invalidateMsg:
				p.handleInvalidate(m, loads)
			case loadDoneMsg:
				p.handleLoadDone(m, loads, orphans, blocked)
			case namespaceMsg:
				p.handleNamespaceChange(m.change, loads, blocked)
			}
		}
	}
}

func (p *Provider) handleGet(
	ctx context.Context,
	m getMsg,
	loads map[string]*pendingLoad,
	orphans map[uint64]*pendingLoad,
	blocked map[string]struct{},
	nextGen *uint64,
) {
	key := m.id.String()
	namespace := m.id.Namespace()

	if _, isBlocked := blocked[namespace]; isBlocked {
		m.reply <- getReply{err: &NamespaceBlockedError{Namespace: namespace}}
		return
	}

	if entry, ok := p.cache.Get(key); ok {
		p.metrics.IncrementCounter(metricCacheHits, nil)
		m.reply <- getReply{enforcer: entry.enforcer, found: entry.present}
		return
	}
	p.metrics.IncrementCounter(metricCacheMisses, nil)

	if l := loads[key]; l != nil {
		if !l.stale {
			l.waiters = append(l.waiters, m.reply)
			return
		}
		// The in-flight load predates an invalidation: park it so its waiters
		// still get served, and start a fresh load for the new caller.
		orphans[l.gen] = l
		delete(loads, key)
	}

	*nextGen++
	loads[key] = &pendingLoad{
		gen:       *nextGen,
		namespace: namespace,
		waiters:   []chan getReply{m.reply},
	}
	p.metrics.IncrementCounter(metricCacheLoads, nil)

	go p.runLoad(ctx, m.id, *nextGen)
}

func (p *Provider) handleInvalidate(m invalidateMsg, loads map[string]*pendingLoad) {
	key := m.id.String()

	removed := p.cache.Remove(key)
	if l := loads[key]; l != nil {
		l.stale = true
	}

	p.metrics.IncrementCounter(metricInvalidations, nil)
	p.logger.Debug("enforcer invalidated",
		"policyId", key, "removed", removed, "correlationId", m.correlationID)

	m.reply <- removed
}

func (p *Provider) handleLoadDone(
	m loadDoneMsg,
	loads map[string]*pendingLoad,
	orphans map[uint64]*pendingLoad,
	blocked map[string]struct{},
) {
	key := m.id.String()

	var l *pendingLoad
	if current := loads[key]; current != nil && current.gen == m.gen {
		l = current
		delete(loads, key)
	} else if orphan := orphans[m.gen]; orphan != nil {
		l = orphan
		delete(orphans, m.gen)
	}
	if l == nil {
		return
	}

	reply := getReply{enforcer: m.enforcer, found: m.found}
	if m.err != nil {
		reply = getReply{err: &EnforcerUnavailableError{PolicyID: m.id, Cause: m.err}}
	}
	for _, waiter := range l.waiters {
		waiter <- reply
	}

	_, namespaceBlocked := blocked[l.namespace]
	if m.err == nil && !l.stale && !namespaceBlocked {
		p.cache.Add(key, cacheEntry{enforcer: m.enforcer, present: m.found, namespace: l.namespace})
	}
}

func (p *Provider) handleNamespaceChange(
	change NamespaceChange,
	loads map[string]*pendingLoad,
	blocked map[string]struct{},
) {
	if !change.Blocked {
		delete(blocked, change.Namespace)
		return
	}

	blocked[change.Namespace] = struct{}{}

	evicted := 0
	for _, key := range p.cache.Keys() {
		entry, ok := p.cache.Get(key)
		if ok && entry.namespace == change.Namespace && p.cache.Remove(key) {
			evicted++
		}
	}
	for _, l := range loads {
		if l.namespace == change.Namespace {
			l.stale = true
		}
	}

	if evicted > 0 {
		p.metrics.IncrementCounter(metricBlockedEvictions, map[string]string{"namespace": change.Namespace})
	}
	p.logger.Info("namespace blocked, enforcers evicted",
		"namespace", change.Namespace, "evicted", evicted)
}

func (p *Provider) runLoad(ctx context.Context, id model.PolicyID, gen uint64) {
	loadCtx, cancel := context.WithTimeout(ctx, p.loadTimeout)
	defer cancel()

	enforcer, found, err := p.loader(loadCtx, id)

	select {
	case p.mailbox <- loadDoneMsg{id: id, gen: gen, enforcer: enforcer, found: found, err: err}:
	case <-ctx.Done():
	}
}

func (p *Provider) watchNamespaces(ctx context.Context) {
	for {
		changes, err := p.watch.Changes(ctx)
		if err != nil {
			p.logger.Warn("namespace watch failed, retrying", "error", err.Error())
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.watchBackoff):
				continue
			}
		}

		streamOpen := true
		for streamOpen {
			select {
			case change, ok := <-changes:
				if !ok {
					streamOpen = false
					break
				}
				select {
				case p.mailbox <- namespaceMsg{change: change}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}

		// Stream ended, reopen it unless we are shutting down.
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.watchBackoff):
		}
	}
}

func (p *Provider) failWaiters(l *pendingLoad) {
	for _, waiter := range l.waiters {
		waiter <- getReply{err: ErrProviderClosed}
	}
}
