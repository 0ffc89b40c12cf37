package pipeline

import (
	"context"

	"github.com/sells-group/follower-map/internal/model"
	"github.com/sells-group/follower-map/pkg/twitter"
)

// TwitterFetcher adapts a twitter.Client to Fetcher.
type TwitterFetcher struct {
	client twitter.Client
}

// NewTwitterFetcher wraps c as a Fetcher.
func NewTwitterFetcher(c twitter.Client) *TwitterFetcher {
	return &TwitterFetcher{client: c}
}

// Followers implements Fetcher.
func (t *TwitterFetcher) Followers(ctx context.Context, screenName, bearerToken string) ([]model.FollowerRecord, error) {
	users, err := t.client.Followers(ctx, screenName, bearerToken)
	if err != nil {
		return nil, err
	}
	out := make([]model.FollowerRecord, len(users))
	for i, u := range users {
		out[i] = model.FollowerRecord{Name: u.ScreenName, RawLocation: u.Location}
	}
	return out, nil
}
