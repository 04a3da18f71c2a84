package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitCommaSeparated(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"R1", 1},
		{"R1,SW1", 2},
		{"R1, SW1, PC1", 3},
		{"R1,,SW1", 2},
	}

	for _, tt := range tests {
		got := SplitCommaSeparated(tt.input)
		if len(got) != tt.want {
			t.Errorf("SplitCommaSeparated(%q) = %v (len %d), want len %d", tt.input, got, len(got), tt.want)
		}
	}
}

func TestValidateHostname(t *testing.T) {
	tests := []struct {
		name string
		want error
	}{
		{"core-router_1", nil},
		{"R1", nil},
		{"", ErrHostnameEmpty},
		{strings.Repeat("a", 64), nil},
		{strings.Repeat("a", 65), ErrHostnameTooLong},
		{"bad name", ErrHostnameInvalid},
		{"bad.name", ErrHostnameInvalid},
	}

	for _, tt := range tests {
		got := ValidateHostname(tt.name)
		if !errors.Is(got, tt.want) {
			t.Errorf("ValidateHostname(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTokens(t *testing.T) {
	cmd := "display vlan  10"
	if got := LastToken(cmd); got != "10" {
		t.Errorf("LastToken = %q", got)
	}
	if got := LastToken("   "); got != "" {
		t.Errorf("LastToken(blank) = %q", got)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	if got := CapitalizeFirst("huawei"); got != "Huawei" {
		t.Errorf("CapitalizeFirst = %q", got)
	}
	if got := CapitalizeFirst(""); got != "" {
		t.Errorf("CapitalizeFirst(empty) = %q", got)
	}
}
