package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/services"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"golang.org/x/time/rate"
)

// Screener classifies one title and stores the verdict.
type Screener interface {
	Screen(ctx context.Context, req models.ScreeningRequest) (*services.ScreenOutcome, error)
}

// BulkScreenOpts contains configuration for bulk screening.
type BulkScreenOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Classifier requests per second (default: 5)
}

// ScreenResult is the outcome for one title.
type ScreenResult struct {
	Title    string
	Approved bool
	Score    float64
	Notes    string
	Error    error
}

// BulkScreenResult summarizes a bulk screening run.
type BulkScreenResult struct {
	Total    int
	Approved int
	Rejected int
	Failed   int
	Results  []ScreenResult
}

// BulkScreen screens many titles concurrently with rate limiting and progress tracking.
//
// Individual failures are recorded in the result and do not stop the run.
func BulkScreen(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	screener Screener,
	reqs []models.ScreeningRequest,
	opts BulkScreenOpts,
) (*BulkScreenResult, error) {
	if screener == nil {
		return nil, fmt.Errorf("%w: screener not initialized", shared.ErrServiceUnavailable)
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

	result := &BulkScreenResult{
		Total:   len(reqs),
		Results: make([]ScreenResult, 0, len(reqs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan models.ScreeningRequest, len(reqs))
	results := make(chan ScreenResult, len(reqs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go screenWorker(ctx, &wg, limiter, screener, jobs, results)
	}

	sendProgress(prog, ProgressUpdate{Total: len(reqs)})
	for _, req := range reqs {
		jobs <- req
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case res.Error != nil:
			result.Failed++
		case res.Approved:
			result.Approved++
		default:
			result.Rejected++
		}
		sendProgress(prog, ProgressUpdate{Step: completed, Total: len(reqs), Result: &res})
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("screening interrupted: %w", err)
	}
	return result, nil
}

// screenWorker screens requests from the jobs channel until it closes or ctx ends.
func screenWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	screener Screener,
	jobs <-chan models.ScreeningRequest,
	results chan<- ScreenResult,
) {
	defer wg.Done()

	for req := range jobs {
		res := ScreenResult{Title: req.Title}

		if err := limiter.Wait(ctx); err != nil {
			res.Error = err
			results <- res
			continue
		}

		out, err := screener.Screen(ctx, req)
		if err != nil {
			res.Error = err
		} else {
			res.Approved = out.Result.Approved
			res.Score = out.Result.Score
			res.Notes = out.Result.Notes
		}
		results <- res
	}
}

// sendProgress delivers update without blocking; updates are dropped when nobody is listening.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
