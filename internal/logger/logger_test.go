package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestCategoryFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	SetCategoryFilter([]string{"convert"})
	defer SetCategoryFilter(nil)

	Printf("convert", "kept message")
	Printf("startup", "dropped message")
	Error("errors always pass")

	out := buf.String()
	if !strings.Contains(out, "kept message") {
		t.Errorf("filtered-in category was dropped: %q", out)
	}
	if strings.Contains(out, "dropped message") {
		t.Errorf("filtered-out category was logged: %q", out)
	}
	if !strings.Contains(out, "errors always pass") {
		t.Errorf("error category did not bypass filter: %q", out)
	}
}

func TestDebugCategoriesGatedByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	SetMinLevel(LevelInfo)
	Printf("debug-resample", "hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug category logged at info level: %q", buf.String())
	}

	SetMinLevel(LevelDebug)
	defer SetMinLevel(LevelInfo)
	Printf("debug-resample", "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug category dropped at debug level: %q", buf.String())
	}
}

func TestOversizedLinesStillLogged(t *testing.T) {
	// Lines larger than the pool retention cap must be written in full;
	// only the buffer reuse is skipped.
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	big := strings.Repeat("x", 2*maxPooledBufferSize)
	Printf("convert", "%s", big)
	Printf("convert", "after the big one")

	out := buf.String()
	if !strings.Contains(out, big) {
		t.Error("oversized line was truncated or dropped")
	}
	if !strings.Contains(out, "after the big one") {
		t.Errorf("logging broken after oversized line: %q", out)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatCount(1500); got != "1.5K" {
		t.Errorf("FormatCount(1500) = %q", got)
	}
	if got := FormatBytes(2 * 1024 * 1024); got != "2.0 MB" {
		t.Errorf("FormatBytes = %q", got)
	}
}
