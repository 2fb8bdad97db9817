// package tasks implements long-running catalog operations.
//
// The core abstraction is CacheWarmer, which pre-populates the catalog cache
// for a list of artist names. Operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pollsterfm/pollster/internal/catalog"
	"github.com/pollsterfm/pollster/internal/shared"
	"golang.org/x/time/rate"
)

// WarmOpts contains configuration for cache warming runs.
type WarmOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Provider requests per second (default: 5)
}

// WarmResult summarizes one warming run.
type WarmResult struct {
	Total    int              // Artist names submitted
	Resolved int              // Names resolved and cached
	Missing  int              // Names the catalog has no entry for
	Failures []ArtistWarmInfo // Per-name outcomes for names that did not resolve
}

// ArtistWarmInfo is the outcome for a single artist name.
type ArtistWarmInfo struct {
	Name  string
	Error error
}

// CacheWarmer pre-resolves artist names through a [catalog.Resolver].
type CacheWarmer struct {
	resolver *catalog.Resolver
}

// NewCacheWarmer creates a warmer over the given resolver.
func NewCacheWarmer(resolver *catalog.Resolver) *CacheWarmer {
	return &CacheWarmer{resolver: resolver}
}

// Warm resolves the given artist names concurrently, respecting the provider
// rate limit. Each successful resolution lands in the cache through the
// resolver's normal write-back; NotFound is counted, not fatal.
func (w *CacheWarmer) Warm(ctx context.Context, prog chan<- ProgressUpdate, names []string, opts WarmOpts) (*WarmResult, error) {
	if w.resolver == nil {
		return nil, fmt.Errorf("%w: resolver not initialized", shared.ErrInvalidArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &WarmResult{Total: len(names)}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan string, len(names))
	outcomes := make(chan ArtistWarmInfo, len(names))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go w.worker(ctx, &wg, limiter, jobs, outcomes)
	}

	go func() {
		w.sendProgress(prog, ProgressUpdate{Phase: WarmStart, Total: len(names), Message: fmt.Sprintf("Warming %d artists", len(names))})
		for _, name := range names {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			case jobs <- name:
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	step := 0
	for outcome := range outcomes {
		step++
		w.sendProgress(prog, ProgressUpdate{
			Phase:   WarmArtist,
			Step:    step,
			Total:   len(names),
			Message: outcome.Name,
		})

		switch {
		case outcome.Error == nil:
			result.Resolved++
		case errors.Is(outcome.Error, shared.ErrNotFound):
			result.Missing++
			result.Failures = append(result.Failures, outcome)
		default:
			result.Failures = append(result.Failures, outcome)
		}
	}

	w.sendProgress(prog, ProgressUpdate{Phase: WarmDone, Step: result.Total, Total: result.Total, Message: "Warm complete", Data: result})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("warm interrupted: %w", err)
	}

	return result, nil
}

// worker resolves names from the job channel until it closes.
func (w *CacheWarmer) worker(ctx context.Context, wg *sync.WaitGroup, limiter *rate.Limiter, jobs <-chan string, outcomes chan<- ArtistWarmInfo) {
	defer wg.Done()

	for name := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			outcomes <- ArtistWarmInfo{Name: name, Error: err}
			continue
		}

		_, err := w.resolver.ResolveArtist(ctx, name)
		outcomes <- ArtistWarmInfo{Name: name, Error: err}
	}
}

// sendProgress sends an update without blocking when no listener is attached.
func (w *CacheWarmer) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
