package util

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VLAN id bounds. VLAN 0 and 4095 are reserved by 802.1Q.
const (
	MinVLANID = 1
	MaxVLANID = 4094
)

// ValidateVLANID checks that id is a usable 802.1Q VLAN id.
func ValidateVLANID(id int) error {
	if id < MinVLANID || id > MaxVLANID {
		return fmt.Errorf("VLAN %d out of range (%d-%d)", id, MinVLANID, MaxVLANID)
	}
	return nil
}

// ParseVLANID parses a single VLAN id token and validates its range.
func ParseVLANID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid VLAN ID '%s'", s)
	}
	if err := ValidateVLANID(id); err != nil {
		return 0, err
	}
	return id, nil
}

// ParseVLANBatch expands a VLAN batch argument into individual ids.
// Three syntaxes are accepted:
//   - "10 to 20"   inclusive range
//   - "10-20"      inclusive range, no whitespace
//   - "10 11 12"   explicit list
//
// Any malformed entry fails the whole batch; callers apply nothing on error.
func ParseVLANBatch(input string) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty VLAN list")
	}

	if strings.Contains(input, " to ") {
		if parts := strings.Split(input, " to "); len(parts) == 2 {
			return expandVLANSpan(parts[0], parts[1])
		}
	}

	if strings.Contains(input, "-") && !strings.Contains(input, " ") {
		if parts := strings.Split(input, "-"); len(parts) == 2 {
			return expandVLANSpan(parts[0], parts[1])
		}
	}

	var vlans []int
	for _, part := range strings.Fields(input) {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("Invalid VLAN: %s", part)
		}
		if err := ValidateVLANID(v); err != nil {
			return nil, err
		}
		vlans = append(vlans, v)
	}
	return vlans, nil
}

func expandVLANSpan(startStr, endStr string) ([]int, error) {
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return nil, fmt.Errorf("Invalid start VLAN")
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return nil, fmt.Errorf("Invalid end VLAN")
	}
	if start > end || start < MinVLANID || end > MaxVLANID {
		return nil, fmt.Errorf("Invalid VLAN range")
	}
	vlans := make([]int, 0, end-start+1)
	for v := start; v <= end; v++ {
		vlans = append(vlans, v)
	}
	return vlans, nil
}

// ParseVLANList parses a trunk allow-list. It accepts everything
// ParseVLANBatch does plus comma separated items, each of which may itself
// be a single id or an "X-Y" span ("10,20-22,30"). The result is sorted
// and deduplicated.
func ParseVLANList(input string) ([]int, error) {
	if !strings.Contains(input, ",") {
		vlans, err := ParseVLANBatch(input)
		if err != nil {
			return nil, err
		}
		return SortedUniqueInts(vlans), nil
	}

	var result []int
	for _, item := range SplitCommaSeparated(input) {
		vlans, err := ParseVLANBatch(item)
		if err != nil {
			return nil, err
		}
		result = append(result, vlans...)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("empty VLAN list")
	}
	return SortedUniqueInts(result), nil
}

// SortedUniqueInts returns a sorted copy of values with duplicates removed.
func SortedUniqueInts(values []int) []int {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	result := []int{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			result = append(result, sorted[i])
		}
	}
	return result
}

// JoinInts renders values separated by sep ("10,20,30").
func JoinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

// CompactRange compacts a list of integers into range notation
// [1, 2, 3, 5, 7, 8, 9] -> "1-3,5,7-9"
func CompactRange(values []int) string {
	sorted := SortedUniqueInts(values)
	if len(sorted) == 0 {
		return ""
	}

	var parts []string
	start := sorted[0]
	end := sorted[0]

	for i := 1; i < len(sorted); i++ {
		if sorted[i] == end+1 {
			end = sorted[i]
		} else {
			parts = append(parts, formatRange(start, end))
			start = sorted[i]
			end = sorted[i]
		}
	}
	parts = append(parts, formatRange(start, end))

	return strings.Join(parts, ",")
}

func formatRange(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d-%d", start, end)
}
