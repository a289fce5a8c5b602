package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/ytmigrate/internal/models"
	"golang.org/x/time/rate"
)

// VerifyAllOpts configures [VerifyAll].
type VerifyAllOpts struct {
	Naming        Naming
	NumWorkers    int            // Concurrent workers (default: 4, max: 10)
	RateLimit     float64        // Listing requests per second (default: 5)
	FetchSource   FetchItemsFunc // Lists source playlist items
	FetchTarget   FetchItemsFunc // Lists target playlist items
	Resolve       ResolveFunc    // Finds a target playlist by name
	OnSourceError func(pl models.Playlist, err error)
}

type verifyJob struct {
	index    int
	playlist models.Playlist
}

type verifyOutcome struct {
	index  int
	result VerificationResult
}

// VerifyAll verifies playlists concurrently and returns results in input order.
//
// Verification only reads from both accounts. A playlist whose source items
// cannot be listed is reported with [StatusFetchError].
func VerifyAll(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	playlists []models.Playlist,
	opts VerifyAllOpts,
) ([]VerificationResult, error) {
	if opts.FetchSource == nil || opts.FetchTarget == nil || opts.Resolve == nil {
		return nil, fmt.Errorf("verification requires source, target and resolve functions")
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	paced := func(fetch FetchItemsFunc) FetchItemsFunc {
		return func(ctx context.Context, id string) ([]models.PlaylistItem, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return fetch(ctx, id)
		}
	}
	fetchSource, fetchTarget := paced(opts.FetchSource), paced(opts.FetchTarget)

	jobs := make(chan verifyJob, len(playlists))
	outcomes := make(chan verifyOutcome, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				outcomes <- verifyOutcome{
					index:  job.index,
					result: verifyOne(ctx, job.playlist, fetchSource, fetchTarget, opts),
				}
			}
		}()
	}

	for i, pl := range playlists {
		jobs <- verifyJob{index: i, playlist: pl}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]VerificationResult, len(playlists))
	completed := 0
	for out := range outcomes {
		completed++
		results[out.index] = out.result
		sendProgress(prog, verifyUpdate(completed, len(playlists), out.result))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verification interrupted after %d of %d playlist(s): %w", completed, len(playlists), err)
	}
	return results, nil
}

func verifyOne(ctx context.Context, pl models.Playlist, fetchSource, fetchTarget FetchItemsFunc, opts VerifyAllOpts) VerificationResult {
	items, err := fetchSource(ctx, pl.ID)
	if err != nil {
		if opts.OnSourceError != nil {
			opts.OnSourceError(pl, err)
		}
		return VerificationResult{
			SourceName:   pl.Title,
			SourceID:     pl.ID,
			ExpectedName: opts.Naming.TargetName(pl.Title),
			TargetID:     NotFound,
			Status:       StatusFetchError,
			Missing:      []string{},
			Extra:        []string{},
			Notes:        "Could not retrieve source playlist videos: " + err.Error(),
		}
	}
	return Verify(ctx, pl, items, opts.Resolve, fetchTarget, opts.Naming)
}
