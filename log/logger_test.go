package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	type spec struct {
		in     string
		expLvl Level
		expErr bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{" WARNING ", Warning, false},
		{"warn", Warning, false},
		{"error", Error, false},
		{"loud", Notice, true},
	}

	for index, s := range specs {
		lvl, err := ParseLevel(s.in)
		if s.expErr != (err != nil) {
			t.Fatalf("[spec %d] expected error %t; got %v", index, s.expErr, err)
		}
		if lvl != s.expLvl {
			t.Fatalf("[spec %d] expected level %d; got %d", index, s.expLvl, lvl)
		}
	}
}

func TestSinkAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("logtest")
	logger.Info("hidden")
	logger.Warningf("visible %d", 42)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info message to be filtered; got %q", out)
	}
	if !strings.Contains(out, "visible 42") || !strings.Contains(out, "[logtest]") {
		t.Fatalf("expected warning message tagged with module name; got %q", out)
	}
}
