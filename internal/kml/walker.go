package kml

import (
	"iter"

	"github.com/twpayne/go-geom"
)

// PlacemarkRecords returns a lazy depth-first sequence of (name, geometry)
// pairs for every node in the container tree that carries geometry. The
// tree may nest Documents, Folders and Placemarks to arbitrary depth; a
// node's own geometry is yielded before its children are visited, and
// descent continues after a yield because malformed exports do nest
// geometry-carrying containers inside each other. Nodes without children
// simply contribute nothing below themselves.
func (f *Feature) PlacemarkRecords() iter.Seq2[string, geom.T] {
	return func(yield func(string, geom.T) bool) {
		f.walk(yield)
	}
}

func (f *Feature) walk(yield func(string, geom.T) bool) bool {
	if f == nil {
		return true
	}
	if g := f.Geometry(); g != nil {
		if !yield(f.Name, g) {
			return false
		}
	}
	for i := range f.Documents {
		if !f.Documents[i].walk(yield) {
			return false
		}
	}
	for i := range f.Folders {
		if !f.Folders[i].walk(yield) {
			return false
		}
	}
	for i := range f.Placemarks {
		if !f.Placemarks[i].walk(yield) {
			return false
		}
	}
	return true
}
