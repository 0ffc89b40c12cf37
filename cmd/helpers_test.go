package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sells-group/follower-map/internal/config"
)

// fakeUpstream serves both the follower API and the geocoder. Locations in
// places resolve; anything else is a geocoder miss.
type fakeUpstream struct {
	*httptest.Server
	geocodeCalls atomic.Int32
}

func newFakeUpstream(t *testing.T, users []map[string]string, places map[string][2]string) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /1.1/friends/list.json", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errors":[{"code":89,"message":"Invalid or expired token."}]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"users": users})
	})
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		p, ok := places[r.URL.Query().Get("q")]
		if !ok {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"lat": p[0], "lon": p[1], "display_name": r.URL.Query().Get("q")},
		})
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func testConfig(baseURL, out string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: 5000},
		Twitter: config.TwitterConfig{BaseURL: baseURL, Count: 20, TimeoutSecs: 5},
		Geocode: config.GeocodeConfig{BaseURL: baseURL, UserAgent: "follower-map-test", RatePerSec: 1000, TimeoutSecs: 5},
		Map: config.MapConfig{
			OutputPath:  out,
			CenterLat:   36.870190,
			CenterLon:   -29.421995,
			Zoom:        3,
			LayerName:   "Friends' locations",
			MarkerColor: "cadetblue",
			TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		},
		Log: config.LogConfig{Level: "error", Format: "json"},
	}
}
