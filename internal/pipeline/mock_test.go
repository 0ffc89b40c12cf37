package pipeline

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/follower-map/internal/mapview"
	"github.com/sells-group/follower-map/internal/model"
	"github.com/sells-group/follower-map/pkg/geocode"
	"github.com/sells-group/follower-map/pkg/twitter"
)

// --- Fetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Followers(ctx context.Context, screenName, bearerToken string) ([]model.FollowerRecord, error) {
	args := m.Called(ctx, screenName, bearerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FollowerRecord), args.Error(1)
}

// --- Twitter Mock ---

type mockTwitterClient struct {
	mock.Mock
}

func (m *mockTwitterClient) Followers(ctx context.Context, screenName, bearerToken string) ([]twitter.Follower, error) {
	args := m.Called(ctx, screenName, bearerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]twitter.Follower), args.Error(1)
}

// --- Geocode Mock ---

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, query string) (*geocode.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Result), args.Error(1)
}

// --- Renderer Mock ---

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(w io.Writer, doc mapview.Document) error {
	args := m.Called(w, doc)
	return args.Error(0)
}
