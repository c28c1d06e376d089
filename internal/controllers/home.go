package controllers

import (
	"context"
	"sync"

	"github.com/amaumene/openmovie/internal/metrics"
	"github.com/amaumene/openmovie/internal/models"
	"github.com/amaumene/openmovie/internal/repository"
	"github.com/amaumene/openmovie/internal/response"
	"github.com/sirupsen/logrus"
)

// HomeState is the snapshot shown on the home screen.
// Snapshots are replaced as a whole and must be treated as read-only.
type HomeState struct {
	DiscoverMovies []models.Movie `json:"discover_movies"`
	TrendingMovies []models.Movie `json:"trending_movies"`
	Error          string         `json:"error,omitempty"` // empty when there is no error
	IsLoading      bool           `json:"is_loading"`
}

// HomeController owns the discover and trending subscriptions and folds
// their states into a single HomeState.
//
// IsLoading and Error are shared by both subscriptions and reflect whichever
// state was applied last. The movie lists are written only by their own
// subscription.
type HomeController struct {
	repo    repository.MovieRepository
	metrics *metrics.Recorder
	logger  *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	state    HomeState
	closed   bool
	running  map[string]bool
	inflight int
	idle     chan struct{} // closed while no subscription is running
	watchers map[chan HomeState]struct{}
}

// NewHomeController creates the controller and immediately starts both
// subscriptions. Cancelling ctx has the same effect as Close, except that
// Close also waits for the subscriptions to finish.
func NewHomeController(ctx context.Context, repo repository.MovieRepository, recorder *metrics.Recorder, logger *logrus.Logger) *HomeController {
	ctx, cancel := context.WithCancel(ctx)

	idle := make(chan struct{})
	close(idle)

	c := &HomeController{
		repo:    repo,
		metrics: recorder,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		state: HomeState{
			DiscoverMovies: []models.Movie{},
			TrendingMovies: []models.Movie{},
		},
		running:  make(map[string]bool),
		idle:     idle,
		watchers: make(map[chan HomeState]struct{}),
	}

	c.Refresh()
	return c
}

// Refresh starts the discover and trending subscriptions again. A
// subscription that is still running is left alone. Returns the number of
// subscriptions started.
func (c *HomeController) Refresh() int {
	started := 0
	if c.launch(repository.StreamDiscover, c.repo.FetchDiscover, func(s HomeState, movies []models.Movie) HomeState {
		s.DiscoverMovies = movies
		return s
	}) {
		started++
	}
	if c.launch(repository.StreamTrending, c.repo.FetchTrending, func(s HomeState, movies []models.Movie) HomeState {
		s.TrendingMovies = movies
		return s
	}) {
		started++
	}
	return started
}

// State returns the current snapshot
func (c *HomeController) State() HomeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Watch returns a channel that receives the current snapshot and then every
// later one. Delivery is conflated: a slow reader only sees the latest
// snapshot. The channel is closed when ctx is done or the controller closes.
func (c *HomeController) Watch(ctx context.Context) <-chan HomeState {
	ch := make(chan HomeState, 1)

	c.mu.Lock()
	if c.closed || c.ctx.Err() != nil {
		c.mu.Unlock()
		close(ch)
		return ch
	}
	ch <- c.state
	c.watchers[ch] = struct{}{}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		select {
		case <-ctx.Done():
		case <-c.ctx.Done():
		}
		c.mu.Lock()
		delete(c.watchers, ch)
		close(ch)
		c.mu.Unlock()
	}()

	return ch
}

// WaitIdle blocks until no subscription is running or ctx is done
func (c *HomeController) WaitIdle(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels both subscriptions and waits for them to stop. No state
// change is applied once Close has been called.
func (c *HomeController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.logger.Debug("Home controller closed")
}

// launch runs one subscription in its own goroutine
func (c *HomeController) launch(
	name string,
	fetch func(context.Context) repository.MovieStream,
	withMovies func(HomeState, []models.Movie) HomeState,
) bool {
	c.mu.Lock()
	if c.closed || c.ctx.Err() != nil || c.running[name] {
		c.mu.Unlock()
		return false
	}
	c.running[name] = true
	if c.inflight == 0 {
		c.idle = make(chan struct{})
	}
	c.inflight++
	c.wg.Add(1)
	c.mu.Unlock()

	logger := c.logger.WithField("stream", name)
	logger.Debug("Starting subscription")

	go func() {
		defer c.wg.Done()
		defer c.finish(name)

		response.CollectAndHandle(fetch(c.ctx),
			func(movies []models.Movie) {
				c.update(name, "success", func(s HomeState) HomeState {
					s = withMovies(s, movies)
					s.IsLoading = false
					s.Error = ""
					return s
				})
			},
			response.WithOnLoading(func() {
				c.update(name, "loading", func(s HomeState) HomeState {
					s.IsLoading = true
					s.Error = ""
					return s
				})
			}),
			response.WithOnError(func(err error) {
				logger.WithError(err).Warn("Subscription failed")
				c.update(name, "error", func(s HomeState) HomeState {
					s.IsLoading = false
					s.Error = errorMessage(err)
					return s
				})
			}),
			response.WithLogger(logger),
		)
	}()

	return true
}

func (c *HomeController) finish(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.running[name] = false
	c.inflight--
	if c.inflight == 0 {
		close(c.idle)
	}
}

// update is the single read-modify-write on the snapshot
func (c *HomeController) update(name, kind string, fn func(HomeState) HomeState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.ctx.Err() != nil {
		return
	}

	c.state = fn(c.state)
	c.metrics.RecordStateUpdate(name, kind)

	for ch := range c.watchers {
		// Drop the stale snapshot, if any, so the send never blocks
		select {
		case <-ch:
		default:
		}
		ch <- c.state
	}
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
