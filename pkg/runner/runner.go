package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/yaklabco/hbslint/internal/logging"
	"github.com/yaklabco/hbslint/pkg/fsutil"
	"github.com/yaklabco/hbslint/pkg/lint"
)

// Runner orchestrates multi-file linting with an activated lint.Engine.
type Runner struct {
	// Engine lints one file at a time. It must be activated before Run.
	Engine *lint.Engine
}

// New creates a new Runner with the given engine.
func New(engine *lint.Engine) *Runner {
	return &Runner{Engine: engine}
}

// Run discovers files under opts.Paths and lints them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Processes files concurrently using a worker pool
//   - Aggregates results into a single Result with statistics
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.FS == nil {
		opts.FS = osfs.New("/")
	}

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, opts.FS, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; collect by path, then emit in discovery order.
	outcomes := make(map[string]FileOutcome, len(files))

	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// worker lints files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	fsys billy.Filesystem,
	workCh <-chan string,
	outCh chan<- FileOutcome,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := FileOutcome{Path: path}
		fileCtx := logging.WithFields(ctx, logging.FieldPath, path)

		content, _, err := fsutil.ReadFile(fileCtx, fsys, path)
		if err != nil {
			outcome.Error = err
		} else if fr, err := r.Engine.LintFile(fileCtx, path, content); err != nil {
			outcome.Error = err
		} else {
			outcome.Result = fr
		}

		if outcome.Error != nil {
			logging.FromContext(fileCtx).Debug("file not linted", logging.FieldError, outcome.Error)
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
