package mapping

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/omniscale/osmdoc/shape"
)

func TestNewDefaults(t *testing.T) {
	rules, err := New([]byte(``))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"amenity", "cuisine", "name", "phone"} {
		if !rules.Allowed(k) {
			t.Error("missing default", k)
		}
	}
	if len(rules.Created()) != 5 {
		t.Error(rules.Created())
	}
	if !rules.HasProblemChars("addr:a b") {
		t.Error("default problem chars not set")
	}
}

func TestNew(t *testing.T) {
	rules, err := New([]byte(`
created: []
tags:
  - highway
  - name
problem_chars: '[ ]'
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(rules.Created()) != 0 {
		t.Error(rules.Created())
	}
	if !rules.Allowed("highway") || rules.Allowed("amenity") {
		t.Error("tags not loaded")
	}
	if rules.HasProblemChars("addr:a.b") || !rules.HasProblemChars("addr:a b") {
		t.Error("problem chars not loaded")
	}
}

func TestNewErrors(t *testing.T) {
	for _, doc := range []string{
		`tags: foo`,
		`unknown: [a]`,
		`problem_chars: '['`,
		`tags: [id]`,
		"created: [\n",
	} {
		if _, err := New([]byte(doc)); err == nil {
			t.Errorf("%q: no error", doc)
		}
	}
}

func TestFromFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "osmdoc_mapping")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	fname := filepath.Join(dir, "rules.yml")
	if err := ioutil.WriteFile(fname, []byte("tags: [shop]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rules, err := FromFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !rules.Allowed("shop") {
		t.Error("shop not allowed")
	}

	if _, err := FromFile(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("missing file not reported")
	}
}

func TestExampleRules(t *testing.T) {
	rules, err := FromFile("../example-rules.yml")
	if err != nil {
		t.Fatal(err)
	}
	defaults := shape.DefaultRules()
	if !reflect.DeepEqual(rules.Created(), defaults.Created()) {
		t.Error(rules.Created())
	}
	for _, k := range []string{"amenity", "cuisine", "name", "phone", "shop", "addr:street"} {
		if rules.Allowed(k) != defaults.Allowed(k) {
			t.Error("allowed differs for", k)
		}
	}
	for _, k := range []string{"addr:street", "addr:a b", "addr:a'b", `addr:a"b`, "addr:a\\b", "addr:a.b", "addr:a\tb"} {
		if rules.HasProblemChars(k) != defaults.HasProblemChars(k) {
			t.Errorf("problem chars differ for %q", k)
		}
	}
}
