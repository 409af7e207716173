// Package shape converts OSM nodes and ways into documents for a document
// database.
//
// A shaped node looks like:
//
//	{
//	  "id": "2406124091",
//	  "type": "node",
//	  "visible": "true",
//	  "created": {"version": "2", "changeset": "17206049", "timestamp": "2013-08-03T16:43:42Z", "user": "linuxUser16", "uid": "1219059"},
//	  "pos": [41.9757030, -87.6921867],
//	  "address": {"housenumber": "5157", "postcode": "60625", "street": "North Lincoln Ave"},
//	  "amenity": "restaurant",
//	  "name": "La Cabana De Don Luis"
//	}
//
// Ways additionally contain "node_refs" with the ids of their nodes.
package shape

import (
	"math"
	"strconv"
	"strings"

	"github.com/omniscale/osmdoc/element"

	"github.com/pkg/errors"
)

var ErrMissingID = errors.New("missing id attribute")

type Shaper struct {
	rules Rules
}

func New(rules Rules) *Shaper {
	return &Shaper{rules: rules}
}

// Shape returns the record for a node or way element. It returns nil
// and no error for all other elements.
//
// Tags with unknown keys, addr: keys with problem characters and
// addr: keys with more than one colon are ignored.
func (s *Shaper) Shape(e *element.Element) (*Record, error) {
	if e.Tag != element.NodeTag && e.Tag != element.WayTag {
		return nil, nil
	}

	id, ok := e.Get("id")
	if !ok {
		return nil, errors.Wrapf(ErrMissingID, "shaping %s", e.Tag)
	}
	r := &Record{ID: id, Type: e.Tag}

	if v, ok := e.Get("visible"); ok {
		r.Visible = &v
	}
	for _, name := range s.rules.created {
		if v, ok := e.Get(name); ok {
			r.SetCreated(name, v)
		}
	}

	pos, err := position(e)
	if err != nil {
		return nil, errors.Wrapf(err, "shaping %s %s", e.Tag, id)
	}
	r.Pos = pos

	for _, c := range e.Children {
		switch c.Tag {
		case element.TagTag:
			s.addTag(r, c)
		case element.NdTag:
			if e.Tag != element.WayTag {
				continue
			}
			if ref, ok := c.Get("ref"); ok {
				r.AppendNodeRef(ref)
			}
		}
	}
	return r, nil
}

// position returns [lat, lon] or nil if one of both is missing.
func position(e *element.Element) ([]float64, error) {
	lat, okLat := e.Get("lat")
	lon, okLon := e.Get("lon")
	if !okLat || !okLon {
		return nil, nil
	}
	latF, err := parseCoord(lat)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lat")
	}
	lonF, err := parseCoord(lon)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lon")
	}
	return []float64{latF, lonF}, nil
}

// parseCoord rejects NaN and Inf, they are not valid in JSON documents.
func parseCoord(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("invalid coordinate %q", s)
	}
	return f, nil
}

func (s *Shaper) addTag(r *Record, tag *element.Element) {
	k, _ := tag.Get("k")
	v, _ := tag.Get("v")

	if strings.Contains(k, AddressMarker) {
		if s.rules.HasProblemChars(k) {
			return
		}
		// addr:street:name and deeper are ignored
		parts := strings.Split(k, ":")
		if len(parts) == 2 && parts[1] != "" {
			r.SetAddress(parts[1], v)
		}
		return
	}
	// allow-listed keys are not checked for problem chars
	if s.rules.Allowed(k) {
		r.SetTag(k, v)
	}
}
