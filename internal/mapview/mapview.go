// Package mapview renders resolved followers as a self-contained Leaflet map page.
package mapview

import (
	_ "embed"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/follower-map/internal/model"
)

//go:embed map.html
var mapTemplate string

var tmpl = template.Must(template.New("map").Parse(mapTemplate))

// Options controls the map viewport and marker styling.
type Options struct {
	Center      *model.Coordinates // nil means the default viewport
	Zoom        int
	LayerName   string
	MarkerColor string
	TileURL     string
	Attribution string
}

// DefaultOptions returns the viewport over the North Atlantic that fits
// Europe and the Americas at zoom 3.
func DefaultOptions() Options {
	return Options{
		Center:      &model.Coordinates{Lat: 36.870190, Lon: -29.421995},
		Zoom:        3,
		LayerName:   "Friends' locations",
		MarkerColor: "cadetblue",
		TileURL:     "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	}
}

// Document is the input for one rendered map.
type Document struct {
	ID      string
	Title   string
	Markers []model.ResolvedRecord
}

// Renderer renders map documents.
type Renderer struct {
	opts Options
}

// New creates a Renderer. Unset fields in opts fall back to DefaultOptions.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Center == nil {
		opts.Center = def.Center
	} else {
		c := *opts.Center
		opts.Center = &c
	}
	if opts.Zoom <= 0 {
		opts.Zoom = def.Zoom
	}
	if opts.LayerName == "" {
		opts.LayerName = def.LayerName
	}
	if opts.MarkerColor == "" {
		opts.MarkerColor = def.MarkerColor
	}
	if opts.TileURL == "" {
		opts.TileURL = def.TileURL
	}
	if opts.Attribution == "" {
		opts.Attribution = def.Attribution
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

type templateData struct {
	ID          string
	Title       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	LayerName   string
	MarkerColor string
	TileURL     string
	Attribution string
	Count       int
	Features    *geojson.FeatureCollection
}

// Render writes the HTML document for doc to w.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	fc := FeatureCollection(doc.Markers)
	title := doc.Title
	if title == "" {
		title = r.opts.LayerName
	}

	data := templateData{
		ID:          doc.ID,
		Title:       title,
		CenterLat:   r.opts.Center.Lat,
		CenterLon:   r.opts.Center.Lon,
		Zoom:        r.opts.Zoom,
		LayerName:   r.opts.LayerName,
		MarkerColor: r.opts.MarkerColor,
		TileURL:     r.opts.TileURL,
		Attribution: r.opts.Attribution,
		Count:       len(fc.Features),
		Features:    fc,
	}
	if err := tmpl.Execute(w, data); err != nil {
		return eris.Wrap(err, "mapview: execute template")
	}
	return nil
}

// WriteFile replaces the file at path with data. The bytes go to a temporary
// file in the same directory first, so readers never observe a half-written map.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "mapview: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".map-*.html")
	if err != nil {
		return eris.Wrap(err, "mapview: create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "mapview: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "mapview: close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrap(err, "mapview: chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "mapview: rename to %s", path)
	}
	return nil
}

// FeatureCollection converts resolved records to GeoJSON points. Records that
// were not resolved are skipped.
func FeatureCollection(records []model.ResolvedRecord) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, 0, len(records))
	for _, rec := range records {
		if !rec.Found {
			continue
		}
		// GeoJSON positions are (lon, lat).
		pt := geom.NewPointFlat(geom.XY, []float64{rec.Coordinates.Lon, rec.Coordinates.Lat})
		features = append(features, &geojson.Feature{
			Geometry:   pt,
			Properties: map[string]any{"name": rec.Name},
		})
	}
	return &geojson.FeatureCollection{Features: features}
}
