package util

import (
	"reflect"
	"testing"
)

func TestValidateVLANID(t *testing.T) {
	tests := []struct {
		id      int
		wantErr bool
	}{
		{1, false},
		{100, false},
		{4094, false},
		{0, true},
		{4095, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateVLANID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVLANID(%d) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

func TestParseVLANBatch(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr string
	}{
		{name: "to syntax", input: "10 to 12", want: []int{10, 11, 12}},
		{name: "dash syntax", input: "10-12", want: []int{10, 11, 12}},
		{name: "list syntax", input: "10 11 12", want: []int{10, 11, 12}},
		{name: "single", input: "42", want: []int{42}},
		{name: "surrounding whitespace", input: "  5 to 6 ", want: []int{5, 6}},
		{name: "full span", input: "4093-4094", want: []int{4093, 4094}},
		{name: "reversed to", input: "20 to 10", wantErr: "Invalid VLAN range"},
		{name: "reversed dash", input: "20-10", wantErr: "Invalid VLAN range"},
		{name: "span past max", input: "4000 to 4095", wantErr: "Invalid VLAN range"},
		{name: "span from zero", input: "0-5", wantErr: "Invalid VLAN range"},
		{name: "bad start", input: "x to 5", wantErr: "Invalid start VLAN"},
		{name: "bad end", input: "5-y", wantErr: "Invalid end VLAN"},
		{name: "bad list entry", input: "10 abc 12", wantErr: "Invalid VLAN: abc"},
		{name: "list entry out of range", input: "10 5000", wantErr: "VLAN 5000 out of range (1-4094)"},
		{name: "empty", input: "", wantErr: "empty VLAN list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVLANBatch(tt.input)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("ParseVLANBatch(%q) = %v, want error %q", tt.input, got, tt.wantErr)
				}
				if err.Error() != tt.wantErr {
					t.Errorf("ParseVLANBatch(%q) error = %q, want %q", tt.input, err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVLANBatch(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVLANBatch(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseVLANBatchSyntaxesAgree(t *testing.T) {
	a, _ := ParseVLANBatch("10 to 12")
	b, _ := ParseVLANBatch("10-12")
	c, _ := ParseVLANBatch("10 11 12")
	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(b, c) {
		t.Errorf("syntaxes disagree: %v %v %v", a, b, c)
	}
}

func TestParseVLANList(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"10,20,30", []int{10, 20, 30}, false},
		{"10,20-22", []int{10, 20, 21, 22}, false},
		{"30 10 20 10", []int{10, 20, 30}, false},
		{"5 to 7", []int{5, 6, 7}, false},
		{"10,,20", []int{10, 20}, false},
		{"10,x", nil, true},
		{",", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVLANList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVLANList(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVLANList(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCompactRange(t *testing.T) {
	tests := []struct {
		values []int
		want   string
	}{
		{[]int{1, 2, 3, 5, 7, 8, 9}, "1-3,5,7-9"},
		{[]int{5}, "5"},
		{[]int{3, 1, 2, 2}, "1-3"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := CompactRange(tt.values); got != tt.want {
			t.Errorf("CompactRange(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestJoinInts(t *testing.T) {
	if got := JoinInts([]int{10, 20}, ","); got != "10,20" {
		t.Errorf("JoinInts = %q", got)
	}
	if got := JoinInts(nil, ","); got != "" {
		t.Errorf("JoinInts(nil) = %q", got)
	}
}
