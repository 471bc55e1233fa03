package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(LogLevelWarn, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "frame", 14)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "app=chargehud") || !strings.Contains(out, "frame=14") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !regexp.MustCompile(`^time=\d\d:\d\d:\d\d\.\d{3} `).MatchString(out) {
		t.Fatalf("time not in millisecond clock format: %q", out)
	}
}
