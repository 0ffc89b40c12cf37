// Package pipeline turns an account name into a map of its followers: fetch,
// geocode each follower in sequence, drop the unresolved, render.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/follower-map/internal/mapview"
	"github.com/sells-group/follower-map/internal/metrics"
	"github.com/sells-group/follower-map/internal/model"
	"github.com/sells-group/follower-map/pkg/geocode"
)

// Fetcher returns the followers of an account as (name, raw location) pairs.
type Fetcher interface {
	Followers(ctx context.Context, screenName, bearerToken string) ([]model.FollowerRecord, error)
}

// Renderer writes a map document.
type Renderer interface {
	Render(w io.Writer, doc mapview.Document) error
}

// Pipeline sequences fetch, geocode, filter and render for one request.
type Pipeline struct {
	fetcher  Fetcher
	geocoder geocode.Client
	renderer Renderer
	newID    func() string
}

// New creates a new Pipeline with all dependencies.
func New(fetcher Fetcher, geocoder geocode.Client, renderer Renderer) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		geocoder: geocoder,
		renderer: renderer,
		newID:    uuid.NewString,
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	ID        string
	Status    model.FetchStatus
	FetchErr  error
	Followers []model.FollowerRecord
	Resolved  []model.ResolvedRecord // one per follower, before filtering
	Markers   []model.ResolvedRecord // Resolved with unresolved records removed
}

// Dropped is the number of followers whose location did not resolve.
func (r *Result) Dropped() int {
	return len(r.Resolved) - len(r.Markers)
}

// Map is a rendered result.
type Map struct {
	*Result
	HTML []byte
}

// Locations fetches the follower list. Fetch failures are folded into the
// result as FetchStatusUpstreamFailed so callers can tell them apart from an
// account with no followers.
func (p *Pipeline) Locations(ctx context.Context, screenName, bearerToken string) *model.FetchResult {
	followers, err := p.fetcher.Followers(ctx, screenName, bearerToken)
	if err != nil {
		return &model.FetchResult{Status: model.FetchStatusUpstreamFailed, Err: err}
	}
	if len(followers) == 0 {
		return &model.FetchResult{Status: model.FetchStatusEmpty}
	}
	return &model.FetchResult{Status: model.FetchStatusOK, Followers: followers}
}

// Resolve geocodes one follower. Errors and misses both yield an unresolved
// record; a bad location never fails the run.
func (p *Pipeline) Resolve(ctx context.Context, f model.FollowerRecord) model.ResolvedRecord {
	res, err := p.geocoder.Geocode(ctx, f.RawLocation)
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues(metrics.OutcomeError).Inc()
		zap.L().Warn("pipeline: geocode failed",
			zap.String("follower", f.Name),
			zap.String("location", f.RawLocation),
			zap.Error(err),
		)
		return model.Unresolved(f.Name)
	}
	if res == nil || !res.Matched {
		metrics.GeocodeLookups.WithLabelValues(metrics.OutcomeNotFound).Inc()
		zap.L().Debug("pipeline: location not found",
			zap.String("follower", f.Name),
			zap.String("location", f.RawLocation),
		)
		return model.Unresolved(f.Name)
	}
	metrics.GeocodeLookups.WithLabelValues(metrics.OutcomeFound).Inc()
	return model.Resolved(f.Name, model.Coordinates{Lat: res.Latitude, Lon: res.Longitude})
}

// FilterResolved returns the records whose location resolved, in input order.
func FilterResolved(records []model.ResolvedRecord) []model.ResolvedRecord {
	out := make([]model.ResolvedRecord, 0, len(records))
	for _, r := range records {
		if r.Found {
			out = append(out, r)
		}
	}
	return out
}

// Run fetches and geocodes the followers of screenName. Followers are resolved
// one at a time; repeated location strings are looked up again. The only error
// returned is context cancellation, wherever it lands: a fetch or lookup cut
// short by ctx is never reported as an upstream failure or a miss.
func (p *Pipeline) Run(ctx context.Context, screenName, bearerToken string) (*Result, error) {
	result := &Result{ID: p.newID()}
	log := zap.L().With(zap.String("screen_name", screenName), zap.String("map_id", result.ID))
	start := time.Now()

	fetched := p.Locations(ctx, screenName, bearerToken)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Status = fetched.Status
	result.FetchErr = fetched.Err
	result.Followers = fetched.Followers
	metrics.FollowersFetched.Add(float64(len(fetched.Followers)))

	if fetched.Err != nil {
		log.Warn("pipeline: follower fetch failed", zap.Error(fetched.Err))
	}

	result.Resolved = make([]model.ResolvedRecord, 0, len(fetched.Followers))
	for _, f := range fetched.Followers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Resolved = append(result.Resolved, p.Resolve(ctx, f))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Markers = FilterResolved(result.Resolved)

	metrics.PipelineRuns.WithLabelValues(string(result.Status)).Inc()
	log.Info("pipeline: run complete",
		zap.String("status", string(result.Status)),
		zap.Int("followers", len(result.Followers)),
		zap.Int("markers", len(result.Markers)),
		zap.Int("dropped", result.Dropped()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// Build runs the pipeline and renders the markers into an HTML document.
func (p *Pipeline) Build(ctx context.Context, screenName, bearerToken string) (*Map, error) {
	result, err := p.Run(ctx, screenName, bearerToken)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	doc := mapview.Document{
		ID:      result.ID,
		Title:   "Followers of @" + screenName,
		Markers: result.Markers,
	}
	if err := p.renderer.Render(&buf, doc); err != nil {
		return nil, eris.Wrap(err, "pipeline: render map")
	}
	metrics.MarkersRendered.Observe(float64(len(result.Markers)))

	return &Map{Result: result, HTML: buf.Bytes()}, nil
}
