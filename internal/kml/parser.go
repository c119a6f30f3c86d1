package kml

import (
	"encoding/xml"
	"errors"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ErrMalformedDocument reports input that is not well-formed enough for the
// structured parser. It is the only fatal condition an import can hit;
// every other anomaly degrades the result instead of aborting it.
var ErrMalformedDocument = eris.New("kml: malformed document")

// Placemark is one named geometry record extracted from a document.
type Placemark struct {
	Name     string
	Geometry geom.T
}

// Extractor turns raw document bytes into named geometry records. The two
// implementations are interchangeable: StructuredExtractor is schema-strict,
// RawExtractor is permissive, and the importer picks the raw one only when
// the structured one finds no usable polygons.
type Extractor interface {
	Extract(data []byte) ([]Placemark, error)
}

// StructuredExtractor parses the document through the strict KML 2.2 object
// model and walks its container tree.
type StructuredExtractor struct{}

// Extract implements Extractor. The only error it returns wraps
// ErrMalformedDocument; a document that parses but matches nothing yields
// zero records and a nil error.
func (StructuredExtractor) Extract(data []byte) ([]Placemark, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	var records []Placemark
	for name, g := range doc.PlacemarkRecords() {
		records = append(records, Placemark{Name: name, Geometry: g})
	}
	return records, nil
}

// ParseDocument unmarshals bytes into the strict KML object model.
// Syntax errors are fatal; schema mismatches (wrong root element or
// namespace) produce an empty document so the caller can fall back to the
// raw scan.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		var syntaxErr *xml.SyntaxError
		switch {
		case errors.As(err, &syntaxErr):
			return nil, eris.Wrapf(ErrMalformedDocument, "line %d: %s", syntaxErr.Line, syntaxErr.Msg)
		case errors.Is(err, io.EOF):
			// Non-XML or empty input: the decoder ran out before finding
			// a root element.
			return nil, eris.Wrap(ErrMalformedDocument, "no root element")
		}
		zap.L().Debug("kml: structured parse rejected document", zap.Error(err))
		return &Document{}, nil
	}
	return &doc, nil
}
