package cli

import (
	"strings"
	"testing"
)

func TestDotPad(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "normal case",
			input:    "router-1",
			width:    30,
			expected: "router-1 " + strings.Repeat(".", 21),
		},
		{
			name:     "short name",
			input:    "ok",
			width:    10,
			expected: "ok " + strings.Repeat(".", 7),
		},
		{
			name:     "name equals width minus one",
			input:    "abcde",
			width:    6,
			expected: "abcde",
		},
		{
			name:     "name equals width",
			input:    "abcdef",
			width:    6,
			expected: "abcdef",
		},
		{
			name:     "name longer than width",
			input:    "very-long-name",
			width:    5,
			expected: "very-long-name",
		},
		{
			name:     "empty string",
			input:    "",
			width:    10,
			expected: " " + strings.Repeat(".", 9),
		},
		{
			name:     "width of 1",
			input:    "",
			width:    1,
			expected: "",
		},
		{
			name:     "width of 2 with empty string",
			input:    "",
			width:    2,
			expected: " .",
		},
		{
			name:     "single char name width 5",
			input:    "x",
			width:    5,
			expected: "x " + strings.Repeat(".", 3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DotPad(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("DotPad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestDotPad_ResultLength(t *testing.T) {
	result := DotPad("test", 20)
	if len(result) != 20 {
		t.Errorf("DotPad(%q, 20) len = %d, want 20", "test", len(result))
	}
}

func TestColorFunctions(t *testing.T) {
	SetColor(true)
	defer SetColor(false)

	tests := []struct {
		name   string
		fn     func(string) string
		prefix string
	}{
		{"Green", Green, "\x1b[32m"},
		{"Yellow", Yellow, "\x1b[33m"},
		{"Red", Red, "\x1b[31m"},
		{"Bold", Bold, "\x1b[1m"},
		{"Dim", Dim, "\x1b[2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("hello")
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("%s(%q) = %q, should start with %q", tt.name, "hello", got, tt.prefix)
			}
			if !strings.Contains(got, "hello") {
				t.Errorf("%s should contain the input string", tt.name)
			}
			if strings.LastIndex(got, "\x1b[") < strings.Index(got, "hello") || !strings.HasSuffix(got, "m") {
				t.Errorf("%s(%q) = %q, should end with a reset code", tt.name, "hello", got)
			}
		})
	}
}

func TestColorDisabled(t *testing.T) {
	SetColor(false)
	for _, fn := range []func(string) string{Green, Yellow, Red, Bold, Dim} {
		if got := fn("plain"); got != "plain" {
			t.Errorf("color disabled: got %q, want %q", got, "plain")
		}
	}
}

func TestOutcome(t *testing.T) {
	SetColor(true)
	defer SetColor(false)

	if got := Outcome("VLAN 10 created", true); got != "VLAN 10 created" {
		t.Errorf("Outcome(success) = %q", got)
	}
	if got := Outcome("", false); got != "" {
		t.Errorf("Outcome(empty failure) = %q, want empty", got)
	}
	if got := Outcome("Error: Invalid VLAN", false); got != Red("Error: Invalid VLAN") {
		t.Errorf("Outcome(failure) = %q, want red", got)
	}
}
