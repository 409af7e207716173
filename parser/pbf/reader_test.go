package pbf

import (
	"context"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/omniscale/osmdoc/element"

	"github.com/pkg/errors"
)

// testdata/small.osm.pbf contains two data blocks:
// nodes 1, 2 and way 10 (refs 1, 2, 3) in the first, node 3 in the second.
const smallPBF = "testdata/small.osm.pbf"

func collect(t *testing.T, fname string) []*element.Element {
	var elems []*element.Element
	err := ParseFile(context.Background(), fname, func(e *element.Element) error {
		elems = append(elems, e)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return elems
}

func checkAttrs(t *testing.T, e *element.Element, want map[string]string) {
	t.Helper()
	for name, v := range want {
		if got, _ := e.Get(name); got != v {
			t.Errorf("%s %s: got %q, want %q", e.Tag, name, got, v)
		}
	}
}

func checkCoord(t *testing.T, e *element.Element, name string, want float64) {
	t.Helper()
	v, _ := e.Get(name)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-want) > 1e-7 {
		t.Errorf("%s: got %v, want %v", name, f, want)
	}
}

func childAttrs(e *element.Element, tag, name string) []string {
	var vals []string
	for _, c := range e.Children {
		if c.Tag == tag {
			v, _ := c.Get(name)
			vals = append(vals, v)
		}
	}
	return vals
}

func TestParseFile(t *testing.T) {
	elems := collect(t, smallPBF)
	if len(elems) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(elems))
	}

	var order []string
	for _, e := range elems {
		id, _ := e.Get("id")
		order = append(order, e.Tag+"/"+id)
	}
	if got := strings.Join(order, " "); got != "node/1 node/2 way/10 node/3" {
		t.Error("unexpected order", got)
	}

	n := elems[0]
	checkAttrs(t, n, map[string]string{
		"version":   "3",
		"changeset": "42",
		"timestamp": "2013-07-11T18:23:02Z",
		"user":      "alice",
		"uid":       "7",
	})
	checkCoord(t, n, "lat", 52.5)
	checkCoord(t, n, "lon", 13.25)
	if keys := childAttrs(n, element.TagTag, "k"); strings.Join(keys, ",") != "amenity,name" {
		t.Error("tags not sorted", keys)
	}
	if vals := childAttrs(n, element.TagTag, "v"); strings.Join(vals, ",") != "bakery,Bakery" {
		t.Error(vals)
	}

	if len(elems[1].Children) != 0 {
		t.Error("node without tags has children", elems[1].Children)
	}

	w := elems[2]
	checkAttrs(t, w, map[string]string{"version": "2", "changeset": "43", "user": "bob", "uid": "8"})
	if w.Has("lat") || w.Has("lon") {
		t.Error("way with coordinates", w.Attrs)
	}
	if refs := childAttrs(w, element.NdTag, "ref"); strings.Join(refs, ",") != "1,2,3" {
		t.Error("unexpected refs", refs)
	}
	if keys := childAttrs(w, element.TagTag, "k"); strings.Join(keys, ",") != "building" {
		t.Error(keys)
	}

	checkCoord(t, elems[3], "lat", -33.5)
	checkCoord(t, elems[3], "lon", -70.65)
}

func TestParseCallbackError(t *testing.T) {
	errStop := errors.New("stop")
	calls := 0
	err := ParseFile(context.Background(), smallPBF, func(*element.Element) error {
		calls++
		return errStop
	})
	if err != errStop {
		t.Error(err)
	}
	if calls != 1 {
		t.Error("callback called after error", calls)
	}
}

func TestParseCanceled(t *testing.T) {
	f, err := os.Open(smallPBF)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Parse(ctx, f, func(*element.Element) error { return nil })
	if err != context.Canceled {
		t.Error(err)
	}
}

func TestParseInvalid(t *testing.T) {
	called := false
	err := Parse(context.Background(), strings.NewReader("\x00\x00\x00\x04not a pbf file"), func(*element.Element) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("invalid file not reported")
	}
	if called {
		t.Error("callback called for invalid file")
	}
}

func TestParseFileMissing(t *testing.T) {
	err := ParseFile(context.Background(), "/does/not/exist.osm.pbf", func(*element.Element) error {
		return nil
	})
	if err == nil {
		t.Fatal("missing file not reported")
	}
}
