package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	f := newLevelFilter(buf, LInfo)

	f.Write([]byte("[debug] hidden\n"))
	f.Write([]byte("[step] hidden\n"))
	f.Write([]byte("[info] shown\n"))
	f.Write([]byte("no level\n"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("lines below min level written:", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Error("unexpected output:", out)
	}

	buf.Reset()
	f.setMinLevel(LWarn)
	f.Write([]byte("[info] hidden\n"))
	f.Write([]byte("[error] shown\n"))
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "[error] shown") {
		t.Error("unexpected output:", out)
	}
}

func TestLineLevel(t *testing.T) {
	for line, level := range map[string]Level{
		"[warn] foo":   LWarn,
		"foo [info]":   LInfo,
		"foo":          "",
		"[unterminated": "",
	} {
		if l := lineLevel([]byte(line)); l != level {
			t.Errorf("%q: got %q, want %q", line, l, level)
		}
	}
}
