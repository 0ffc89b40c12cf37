package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sells-group/follower-map/internal/config"
	"github.com/sells-group/follower-map/internal/mapview"
	"github.com/sells-group/follower-map/internal/model"
	"github.com/sells-group/follower-map/internal/pipeline"
	"github.com/sells-group/follower-map/pkg/geocode"
	"github.com/sells-group/follower-map/pkg/twitter"
)

// newPipeline wires the follower client, the geocoder and the map renderer
// from configuration.
func newPipeline(c *config.Config) *pipeline.Pipeline {
	tw := twitter.NewClient(
		twitter.WithBaseURL(c.Twitter.BaseURL),
		twitter.WithCount(c.Twitter.Count),
		twitter.WithHTTPClient(&http.Client{Timeout: time.Duration(c.Twitter.TimeoutSecs) * time.Second}),
	)

	gc := geocode.NewClient(
		geocode.WithBaseURL(c.Geocode.BaseURL),
		geocode.WithUserAgent(c.Geocode.UserAgent),
		geocode.WithRateLimit(c.Geocode.RatePerSec),
		geocode.WithHTTPClient(&http.Client{Timeout: time.Duration(c.Geocode.TimeoutSecs) * time.Second}),
	)

	return pipeline.New(pipeline.NewTwitterFetcher(tw), gc, newRenderer(c.Map))
}

func newRenderer(m config.MapConfig) *mapview.Renderer {
	return mapview.New(mapview.Options{
		Center:      &model.Coordinates{Lat: m.CenterLat, Lon: m.CenterLon},
		Zoom:        m.Zoom,
		LayerName:   m.LayerName,
		MarkerColor: m.MarkerColor,
		TileURL:     m.TileURL,
	})
}

type mapBuilder interface {
	Build(ctx context.Context, screenName, bearerToken string) (*pipeline.Map, error)
}
