package asset

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Request asks for the visual of one scene object
type Request struct {
	ID   string
	Spec Spec
}

// Outcome reports one finished request; Err is non-nil when every candidate failed
type Outcome struct {
	ID     string
	Result Result
	Err    error
}

// Loader resolves requests concurrently and delivers outcomes in completion order
type Loader struct {
	src    Source
	logger *slog.Logger
}

// NewLoader creates a loader; nil logger uses slog.Default
func NewLoader(src Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{src: src, logger: logger}
}

// Start launches one goroutine per request
// The returned channel is buffered for every outcome and closed after the last
func (l *Loader) Start(ctx context.Context, reqs []Request) <-chan Outcome {
	out := make(chan Outcome, len(reqs))

	var wg sync.WaitGroup
	for _, req := range reqs {
		wg.Add(1)
		go func(req Request) {
			defer wg.Done()
			out <- l.load(ctx, req)
		}(req)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func (l *Loader) load(ctx context.Context, req Request) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("%w: %s: panic: %v", ErrAssetUnavailable, req.ID, p)
			l.logger.Error("asset load panicked", "id", req.ID, "panic", p, "stack", string(debug.Stack()))
			out = Outcome{ID: req.ID, Err: err}
		}
	}()

	res, err := Resolve(ctx, l.src, req.Spec)
	if err != nil {
		l.logger.Error("asset unavailable", "id", req.ID, "primary", req.Spec.Primary.Model, "err", err)
		return Outcome{ID: req.ID, Result: res, Err: err}
	}

	if res.UsedFallback() {
		l.logger.Warn("primary asset failed, using fallback",
			"id", req.ID,
			"primary", req.Spec.Primary.Model,
			"fallback", res.Choice.Model,
			"tier", res.Tier,
			"cause", res.Errs[0],
		)
	} else {
		l.logger.Debug("asset loaded", "id", req.ID, "model", res.Choice.Model, "triangles", res.Model.TriangleCount())
	}
	return Outcome{ID: req.ID, Result: res}
}
