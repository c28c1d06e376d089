package repository

import (
	"context"
	"iter"
	"sync/atomic"

	"github.com/amaumene/openmovie/internal/mapper"
	"github.com/amaumene/openmovie/internal/metrics"
	"github.com/amaumene/openmovie/internal/models"
	"github.com/amaumene/openmovie/internal/response"
	"github.com/amaumene/openmovie/internal/services/tmdb"
	"github.com/sirupsen/logrus"
)

// Stream names, used in logs and metrics
const (
	StreamDiscover = "discover"
	StreamTrending = "trending"
)

// MovieStream is the state stream produced by one repository fetch
type MovieStream = iter.Seq[response.State[[]models.Movie]]

// MovieRepository exposes the movie listings as state streams.
// Every call returns a fresh stream that performs its request when ranged over.
type MovieRepository interface {
	FetchDiscover(ctx context.Context) MovieStream
	FetchTrending(ctx context.Context) MovieStream
}

// MovieSource performs the remote list calls. *tmdb.Client satisfies it.
type MovieSource interface {
	FetchDiscover(ctx context.Context, params tmdb.QueryParams) (*tmdb.MovieDto, error)
	FetchTrending(ctx context.Context, params tmdb.QueryParams) (*tmdb.MovieDto, error)
}

// Options are the fixed query parameters sent with every request
type Options struct {
	APIKey       string
	IncludeAdult bool
}

type movieRepository struct {
	source  MovieSource
	mapper  mapper.APIMapper[[]models.Movie, *tmdb.MovieDto]
	params  tmdb.QueryParams
	metrics *metrics.Recorder
	logger  *logrus.Logger
}

// NewMovieRepository creates a repository backed by source
func NewMovieRepository(
	source MovieSource,
	movieMapper mapper.APIMapper[[]models.Movie, *tmdb.MovieDto],
	opts Options,
	recorder *metrics.Recorder,
	logger *logrus.Logger,
) MovieRepository {
	return &movieRepository{
		source: source,
		mapper: movieMapper,
		params: tmdb.QueryParams{
			APIKey:       opts.APIKey,
			IncludeAdult: opts.IncludeAdult,
		},
		metrics: recorder,
		logger:  logger,
	}
}

// FetchDiscover streams the discover listing
func (r *movieRepository) FetchDiscover(ctx context.Context) MovieStream {
	return r.stream(ctx, StreamDiscover, r.source.FetchDiscover)
}

// FetchTrending streams the weekly trending listing
func (r *movieRepository) FetchTrending(ctx context.Context) MovieStream {
	return r.stream(ctx, StreamTrending, r.source.FetchTrending)
}

type fetchFunc func(ctx context.Context, params tmdb.QueryParams) (*tmdb.MovieDto, error)

// stream emits Loading, performs exactly one fetch, then emits Success or
// Error. A cancelled ctx ends the stream without a terminal state. The
// stream can be consumed once; later iterations yield nothing.
func (r *movieRepository) stream(ctx context.Context, name string, fetch fetchFunc) MovieStream {
	var consumed atomic.Bool

	return func(yield func(response.State[[]models.Movie]) bool) {
		if consumed.Swap(true) {
			r.logger.WithField("stream", name).Warn("Movie stream already consumed, ignoring")
			return
		}

		if !r.emit(name, yield, response.Loading[[]models.Movie]{}) {
			return
		}

		dto, err := fetch(ctx, r.params)
		if ctx.Err() != nil {
			r.logger.WithField("stream", name).Debug("Fetch cancelled, ending stream")
			return
		}
		if err != nil {
			entry := r.logger.WithFields(logrus.Fields{
				"stream": name,
				"kind":   tmdb.KindOf(err).String(),
			}).WithError(err)
			switch {
			case tmdb.IsTransport(err):
				// Usually transient; the next refresh may succeed
				entry.Warn("Movie fetch failed")
			case tmdb.IsDecode(err):
				entry.Error("TMDb payload could not be decoded")
			default:
				entry.Error("Movie fetch failed")
			}
			r.emit(name, yield, response.Error[[]models.Movie]{Err: err})
			return
		}

		r.emit(name, yield, response.Success[[]models.Movie]{Data: r.mapper.MapToDomain(dto)})
	}
}

func (r *movieRepository) emit(name string, yield func(response.State[[]models.Movie]) bool, state response.State[[]models.Movie]) bool {
	r.metrics.RecordEmission(name, response.Name[[]models.Movie](state))
	if response.IsTerminal[[]models.Movie](state) {
		fields := logrus.Fields{
			"stream": name,
			"state":  response.Name[[]models.Movie](state),
		}
		if success, ok := state.(response.Success[[]models.Movie]); ok {
			fields["count"] = len(success.Data)
		}
		r.logger.WithFields(fields).Debug("Movie stream finished")
	}
	return yield(state)
}
