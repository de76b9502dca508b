package errors

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("state source unreachable"),
			expected: "Error: state source unreachable",
		},
		{
			name:     "hinted error",
			err:      WithHint(errors.New("storage not initialized"), "run 'focusboard init' first"),
			expected: "Error: storage not initialized\n  hint: run 'focusboard init' first",
		},
		{
			name:     "hint found through wrapping",
			err:      fmt.Errorf("load: %w", WithHint(errors.New("no config"), "pass --config")),
			expected: "Error: load: no config\n  hint: pass --config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestWithHint(t *testing.T) {
	if WithHint(nil, "unused") != nil {
		t.Error("WithHint(nil) should be nil")
	}

	base := errors.New("boom")
	err := WithHint(base, "try again")
	if !errors.Is(err, base) {
		t.Error("hinted error should unwrap to its cause")
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, errors.New("poll failed"))
	if !strings.Contains(buf.String(), "Error: poll failed") {
		t.Errorf("Report() wrote %q", buf.String())
	}

	buf.Reset()
	Report(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("Report(nil) wrote %q", buf.String())
	}
}
