// Package element contains the source model for OSM elements as they appear
// in the input file: a tag name, raw string attributes and ordered children.
package element

import (
	"sort"
	"strconv"
	"time"

	osm "github.com/omniscale/go-osm"
)

const (
	NodeTag = "node"
	WayTag  = "way"
	TagTag  = "tag"
	NdTag   = "nd"
)

type Attr struct {
	Name  string
	Value string
}

// Element is a single XML element with its attributes in document order.
// Children are only set for elements that can contain tag or nd
// elements.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
}

func New(tag string, attrs ...Attr) *Element {
	return &Element{Tag: tag, Attrs: attrs}
}

// Get returns the value of the attribute name and whether it is present.
func (e *Element) Get(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Has returns whether the attribute name is present, even if empty.
func (e *Element) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

func (e *Element) Set(name, value string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{name, value})
}

func (e *Element) AddChild(c *Element) {
	e.Children = append(e.Children, c)
}

// FromNode converts a parsed node into an element with the same
// attributes and tag children an OSM XML file would contain.
func FromNode(n *osm.Node) *Element {
	e := New(NodeTag, Attr{"id", strconv.FormatInt(n.ID, 10)})
	setMetadata(e, n.Metadata)
	e.Set("lat", formatCoord(n.Lat))
	e.Set("lon", formatCoord(n.Long))
	addTags(e, n.Tags)
	return e
}

// FromWay converts a parsed way into an element. Refs are added as nd
// children in way order.
func FromWay(w *osm.Way) *Element {
	e := New(WayTag, Attr{"id", strconv.FormatInt(w.ID, 10)})
	setMetadata(e, w.Metadata)
	for _, ref := range w.Refs {
		e.AddChild(New(NdTag, Attr{"ref", strconv.FormatInt(ref, 10)}))
	}
	addTags(e, w.Tags)
	return e
}

func formatCoord(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func setMetadata(e *Element, md *osm.Metadata) {
	if md == nil {
		return
	}
	e.Set("version", strconv.FormatInt(int64(md.Version), 10))
	e.Set("changeset", strconv.FormatInt(md.Changeset, 10))
	if !md.Timestamp.IsZero() {
		e.Set("timestamp", md.Timestamp.UTC().Format(time.RFC3339))
	}
	if md.UserName != "" {
		e.Set("user", md.UserName)
	}
	if md.UserID != 0 {
		e.Set("uid", strconv.FormatInt(int64(md.UserID), 10))
	}
}

// addTags appends tag children sorted by key. Tags are a map in go-osm,
// sorting keeps the output reproducible.
func addTags(e *Element, tags osm.Tags) {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.AddChild(New(TagTag, Attr{"k", k}, Attr{"v", tags[k]}))
	}
}
