// Package importer runs the KML-to-paddock extraction pipeline: structured
// parse, container walk, geometry normalization, geodesic measurement and a
// raw-XML fallback when the structured path finds nothing.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/grazeland/paddock-cli/internal/geometry"
	"github.com/grazeland/paddock-cli/internal/kml"
	"github.com/grazeland/paddock-cli/internal/model"
	"github.com/grazeland/paddock-cli/internal/store"
)

// DefaultPaddockName names placemarks whose name element is absent or blank.
const DefaultPaddockName = "Unnamed paddock"

// Options tunes an import run.
type Options struct {
	// DefaultName overrides the placeholder for unnamed placemarks.
	DefaultName string
	// DryRun parses and measures without persisting anything.
	DryRun bool
}

// Importer converts raw KML bytes into persisted paddock records. A single
// run processes one document synchronously; concurrency across runs is the
// store's concern.
type Importer struct {
	store    store.Store
	primary  kml.Extractor
	fallback kml.Extractor
	opts     Options
}

// New builds an Importer backed by the given store. The store may be nil
// only for dry runs.
func New(st store.Store, opts Options) *Importer {
	if opts.DefaultName == "" {
		opts.DefaultName = DefaultPaddockName
	}
	return &Importer{
		store:    st,
		primary:  kml.StructuredExtractor{},
		fallback: kml.RawExtractor{},
		opts:     opts,
	}
}

// Run imports one document. The only error that aborts a run is a
// malformed document from the structured parser (or a persistence
// failure); placemarks that yield no usable polygons merely show up in the
// summary. All paddocks from a run are persisted in one transaction.
func (imp *Importer) Run(ctx context.Context, data []byte) (*model.ImportSummary, error) {
	summary := model.NewImportSummary()

	records, err := imp.primary.Extract(data)
	if err != nil {
		return nil, err
	}

	paddocks := imp.process(records, summary)

	if len(paddocks) == 0 {
		raw, rawErr := imp.fallback.Extract(data)
		if rawErr != nil {
			zap.L().Debug("importer: raw scan failed", zap.Error(rawErr))
		} else if len(raw) > 0 {
			zap.L().Info("importer: structured parse found no polygons, using raw scan",
				zap.Int("placemarks", len(raw)),
			)
			paddocks = imp.process(raw, summary)
		}
	}

	if len(paddocks) > 0 && !imp.opts.DryRun {
		if err := imp.store.CreatePaddocks(ctx, paddocks); err != nil {
			return nil, eris.Wrap(err, "importer: persist paddocks")
		}
	}

	summary.Imported = len(paddocks)
	zap.L().Info("importer: run complete",
		zap.Int("imported", summary.Imported),
		zap.Int("placemarks", summary.Placemarks),
		zap.Int("polygon_placemarks", summary.PolygonPlacemarks),
		zap.Int("non_polygon_placemarks", summary.NonPolygonPlacemarks),
	)
	return summary, nil
}

// process normalizes and measures extracted records, updating the summary
// as it goes. Records that decompose into multiple polygons get a 1-based
// index suffix on the display name.
func (imp *Importer) process(records []kml.Placemark, summary *model.ImportSummary) []model.Paddock {
	var paddocks []model.Paddock

	for _, rec := range records {
		summary.Placemarks++
		summary.CountGeometry(geometry.TypeLabel(rec.Geometry))

		polys := geometry.Flatten(rec.Geometry)
		if len(polys) == 0 {
			summary.NonPolygonPlacemarks++
			continue
		}
		summary.PolygonPlacemarks++

		name := strings.TrimSpace(rec.Name)
		if name == "" {
			name = imp.opts.DefaultName
		}

		for i, poly := range polys {
			paddockName := name
			if len(polys) > 1 {
				paddockName = fmt.Sprintf("%s %d", name, i+1)
			}

			boundary, err := geojson.Marshal(poly)
			if err != nil {
				zap.L().Debug("importer: dropping unencodable polygon",
					zap.String("name", paddockName),
					zap.Error(err),
				)
				continue
			}

			paddocks = append(paddocks, model.Paddock{
				Name:            paddockName,
				AreaHa:          geometry.Hectares(geometry.AreaSquareMeters(poly)),
				BoundaryGeoJSON: string(boundary),
			})
		}
	}
	return paddocks
}
