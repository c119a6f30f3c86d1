package kml

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

// RawExtractor re-reads document bytes as generic XML and locates Placemark
// elements by local name, so any KML namespace flavor (or none at all)
// matches. It never fails: input that cannot be decoded yields whatever was
// found before the decoder gave up, down to zero records.
type RawExtractor struct{}

// Extract implements Extractor.
func (RawExtractor) Extract(data []byte) ([]Placemark, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "kml: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var records []Placemark
	for {
		tok, err := decoder.Token()
		if err != nil {
			if err != io.EOF {
				zap.L().Debug("kml: raw scan stopped", zap.Error(err))
			}
			return records, nil
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}

		pm := scanPlacemark(decoder)
		if g := pm.geometry(); g != nil {
			records = append(records, Placemark{Name: pm.name, Geometry: g})
		}
	}
}

// scannedPlacemark accumulates what the raw scan finds inside one
// Placemark element.
type scannedPlacemark struct {
	name  string
	polys []*geom.Polygon
}

// scanPlacemark consumes tokens up to the Placemark's end element, reading
// the direct name child and every Polygon descendant regardless of the
// wrappers in between. A decode failure mid-element abandons the rest of
// the placemark but keeps what was already read.
func scanPlacemark(decoder *xml.Decoder) scannedPlacemark {
	var pm scannedPlacemark
	depth := 1

	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "name" && depth == 1 && pm.name == "":
				if err := decoder.DecodeElement(&pm.name, &t); err != nil {
					return pm
				}
			case t.Name.Local == "Polygon":
				var raw rawPolygon
				if err := decoder.DecodeElement(&raw, &t); err != nil {
					return pm
				}
				if poly := buildPolygon(raw); poly.NumLinearRings() > 0 {
					pm.polys = append(pm.polys, poly)
				}
			default:
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return pm
}

// geometry returns the placemark's polygons as a single geometry value,
// or nil when the scan found none.
func (pm scannedPlacemark) geometry() geom.T {
	switch len(pm.polys) {
	case 0:
		return nil
	case 1:
		return pm.polys[0]
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for _, poly := range pm.polys {
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("kml: skipping malformed polygon member", zap.Error(err))
		}
	}
	return mp
}
