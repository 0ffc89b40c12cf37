package model

// FetchStatus describes the outcome of fetching a follower list.
type FetchStatus string

const (
	FetchStatusOK             FetchStatus = "ok"
	FetchStatusEmpty          FetchStatus = "empty"           // Upstream answered with zero followers
	FetchStatusUpstreamFailed FetchStatus = "upstream_failed" // Unreachable, non-200, or malformed body
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FollowerRecord is a follower as returned by the follower API.
type FollowerRecord struct {
	Name        string `json:"name"`
	RawLocation string `json:"raw_location"`
}

// ResolvedRecord is a follower after geocoding. Found is false when the
// location could not be resolved; Coordinates is then the zero value.
type ResolvedRecord struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Found       bool        `json:"found"`
}

// Unresolved builds the record for a follower whose location did not resolve.
func Unresolved(name string) ResolvedRecord {
	return ResolvedRecord{Name: name}
}

// Resolved builds the record for a follower placed at c.
func Resolved(name string, c Coordinates) ResolvedRecord {
	return ResolvedRecord{Name: name, Coordinates: c, Found: true}
}

// Sentinel reports whether the record carries the legacy "not found" pair (0, 0)
// without having been resolved. A follower genuinely located at the origin is
// not a sentinel.
func (r ResolvedRecord) Sentinel() bool {
	return !r.Found && r.Coordinates == (Coordinates{})
}

// FetchResult is the follower list together with how it was obtained, so that
// "no followers" and "fetch failed" stay distinguishable.
type FetchResult struct {
	Status    FetchStatus      `json:"status"`
	Followers []FollowerRecord `json:"followers"`
	Err       error            `json:"-"`
}
