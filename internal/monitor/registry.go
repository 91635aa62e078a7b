package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"hl-fill-alerts/internal/fetcher"
	"hl-fill-alerts/internal/journal"
)

var (
	// ErrUnsupportedKind rejects monitor kinds with no loop implementation.
	ErrUnsupportedKind = errors.New("monitor: perpetuals monitoring not yet supported")
	// ErrAlreadyRunning indicates a loop for the address/kind pair exists.
	ErrAlreadyRunning = errors.New("monitor: already running for this address and kind")
	// ErrInvalidAddress indicates the address is not a valid account id.
	ErrInvalidAddress = errors.New("monitor: invalid account address")
)

// Registry owns the start/stop lifecycle of monitor loops. Every started
// loop keeps its cancel handle so stopping is prompt rather than leaked.
type Registry struct {
	opts    Options
	fills   fetcher.FillFetcher
	journal *journal.Journal
	sink    Sink
	store   Store
	logger  zerolog.Logger

	mu      sync.Mutex
	running map[string]*loopHandle
	wg      sync.WaitGroup
}

// loopHandle is allocated once per Start. Its identity distinguishes a loop
// from a later restart under the same key, so a stopped loop's cleanup can
// never remove its successor's entry.
type loopHandle struct {
	cancel context.CancelFunc
}

// NewRegistry constructs a registry sharing one fetcher, journal, sink, and
// store across all loops.
func NewRegistry(opts Options, fills fetcher.FillFetcher, jnl *journal.Journal, sink Sink, store Store, logger zerolog.Logger) *Registry {
	return &Registry{
		opts:    opts,
		fills:   fills,
		journal: jnl,
		sink:    sink,
		store:   store,
		logger:  logger.With().Str("component", "registry").Logger(),
		running: make(map[string]*loopHandle),
	}
}

// Address comparison is case-insensitive: one loop per address+kind pair.
func loopKey(spec Spec) string {
	return strings.ToLower(spec.Address) + "/" + spec.Kind.String()
}

// Start validates the spec and spawns its monitor loop as a goroutine whose
// context is a child of ctx.
func (r *Registry) Start(ctx context.Context, spec Spec) error {
	if !common.IsHexAddress(spec.Address) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, spec.Address)
	}
	if spec.Kind == KindPerpetuals {
		return ErrUnsupportedKind
	}
	spec.Address = common.HexToAddress(spec.Address).Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	key := loopKey(spec)
	if _, ok := r.running[key]; ok {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	handle := &loopHandle{cancel: cancel}
	r.running[key] = handle

	loop := NewLoop(spec, r.opts, r.fills, r.journal, r.sink, r.store, r.logger)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := loop.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error().Err(err).Str("address", spec.Address).Msg("monitor loop terminated")
		}
		r.mu.Lock()
		// Stop followed by a restart may have replaced the entry under the
		// same key; only remove it if it is still ours.
		if r.running[key] == handle {
			delete(r.running, key)
		}
		r.mu.Unlock()
	}()

	r.logger.Info().
		Str("address", spec.Address).
		Str("kind", spec.Kind.String()).
		Msg("monitor started")
	return nil
}

// Stop cancels the loop for the given spec. It reports whether a running
// loop was found.
func (r *Registry) Stop(spec Spec) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := loopKey(spec)
	handle, ok := r.running[key]
	if !ok {
		return false
	}
	handle.cancel()
	delete(r.running, key)
	return true
}

// StopAll cancels every running loop and waits for them to exit.
func (r *Registry) StopAll() {
	r.mu.Lock()
	for key, handle := range r.running {
		handle.cancel()
		delete(r.running, key)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// Count reports the number of running monitor loops.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.running)
}

// Running returns a sorted snapshot of the running loop keys
// ("<address>/<kind>", address lowercased).
func (r *Registry) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.running))
	for key := range r.running {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
