package shape

import "testing"

func TestNewRules(t *testing.T) {
	r, err := NewRules([]string{"user"}, []string{"highway"}, `[ ]`)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Allowed("highway") || r.Allowed("name") {
		t.Error("unexpected allow-list")
	}
	if !r.HasProblemChars("a b") || r.HasProblemChars("a.b") {
		t.Error("unexpected problem chars")
	}

	created := r.Created()
	created[0] = "changed"
	if r.Created()[0] != "user" {
		t.Error("created modified through copy")
	}
}

func TestNewRulesErrors(t *testing.T) {
	if _, err := NewRules(nil, nil, `[`); err == nil {
		t.Error("invalid regexp not reported")
	}
	if _, err := NewRules(nil, []string{""}, DefaultProblemChars); err == nil {
		t.Error("empty key not reported")
	}
	if _, err := NewRules(nil, []string{"pos"}, DefaultProblemChars); err == nil {
		t.Error("reserved key not reported")
	}
}

func TestDefaultProblemChars(t *testing.T) {
	r := DefaultRules()
	for _, c := range []string{"=", "+", "/", "&", "<", ">", ";", "'", `"`, "?", "%", "#", "$", "@", ",", ".", " ", "\t", "\r", "\n"} {
		if !r.HasProblemChars("addr:a" + c + "b") {
			t.Errorf("%q not a problem char", c)
		}
	}
	for _, k := range []string{"addr:street", "addr:post_code", "addr:x-y"} {
		if r.HasProblemChars(k) {
			t.Errorf("%q has problem chars", k)
		}
	}
}
