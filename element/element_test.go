package element

import (
	"testing"
	"time"

	osm "github.com/omniscale/go-osm"
)

func TestAttrs(t *testing.T) {
	e := New(NodeTag, Attr{"id", "1"}, Attr{"visible", ""})

	if v, ok := e.Get("id"); !ok || v != "1" {
		t.Fatal(e)
	}
	if !e.Has("visible") {
		t.Error("empty attribute not present", e)
	}
	if e.Has("lat") {
		t.Error("unexpected lat", e)
	}

	e.Set("id", "2")
	e.Set("lat", "52.1")
	if v, _ := e.Get("id"); v != "2" || len(e.Attrs) != 3 {
		t.Fatal(e)
	}
}

func TestFromNode(t *testing.T) {
	n := &osm.Node{
		Element: osm.Element{
			ID:   261114295,
			Tags: osm.Tags{"name": "foo", "amenity": "cafe"},
			Metadata: &osm.Metadata{
				UserID:    451048,
				UserName:  "bbmiller",
				Version:   7,
				Timestamp: time.Date(2012, 3, 28, 18, 31, 23, 0, time.UTC),
				Changeset: 11129782,
			},
		},
		Lat:  41.9730791,
		Long: -87.6866303,
	}
	e := FromNode(n)

	if e.Tag != NodeTag {
		t.Fatal(e)
	}
	for name, want := range map[string]string{
		"id":        "261114295",
		"lat":       "41.9730791",
		"lon":       "-87.6866303",
		"version":   "7",
		"changeset": "11129782",
		"timestamp": "2012-03-28T18:31:23Z",
		"user":      "bbmiller",
		"uid":       "451048",
	} {
		if v, ok := e.Get(name); !ok || v != want {
			t.Errorf("%s: got %q, want %q", name, v, want)
		}
	}

	if len(e.Children) != 2 {
		t.Fatal(e.Children)
	}
	// sorted by key
	if k, _ := e.Children[0].Get("k"); k != "amenity" {
		t.Error(e.Children[0])
	}
	if v, _ := e.Children[1].Get("v"); v != "foo" {
		t.Error(e.Children[1])
	}
}

func TestFromNodeWithoutMetadata(t *testing.T) {
	e := FromNode(&osm.Node{Element: osm.Element{ID: 1}})
	for _, name := range []string{"version", "changeset", "timestamp", "user", "uid"} {
		if e.Has(name) {
			t.Error("unexpected", name, e)
		}
	}
}

func TestFromWay(t *testing.T) {
	w := &osm.Way{
		Element: osm.Element{ID: 42, Tags: osm.Tags{"addr:street": "Main"}},
		Refs:    []int64{3, 1, 2},
	}
	e := FromWay(w)

	if e.Tag != WayTag || e.Has("lat") {
		t.Fatal(e)
	}
	if len(e.Children) != 4 {
		t.Fatal(e.Children)
	}
	for i, want := range []string{"3", "1", "2"} {
		c := e.Children[i]
		if ref, _ := c.Get("ref"); c.Tag != NdTag || ref != want {
			t.Errorf("child %d: %v", i, c)
		}
	}
	if c := e.Children[3]; c.Tag != TagTag {
		t.Error(c)
	}
}
