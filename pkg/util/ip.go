package util

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// parseIPv4 converts a dotted-quad literal into its 32-bit value.
// Each octet must parse as an unsigned decimal in 0..255.
func parseIPv4(s string) (uint32, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, false
	}
	var v uint32
	for _, p := range parts {
		octet, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, false
		}
		v = v<<8 | uint32(octet)
	}
	return v, true
}

func formatIPv4(v uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", v>>24&0xFF, v>>16&0xFF, v>>8&0xFF, v&0xFF)
}

// IsValidIPv4 checks if a string is a dotted-quad IPv4 literal
func IsValidIPv4(ipStr string) bool {
	_, ok := parseIPv4(ipStr)
	return ok
}

// MaskToPrefixLen converts a dotted-decimal mask to a prefix length by
// counting set bits. Non-contiguous masks are not rejected; they yield
// whatever the population count is.
func MaskToPrefixLen(mask string) (int, error) {
	v, ok := parseIPv4(mask)
	if !ok {
		return 0, fmt.Errorf("invalid mask '%s'", mask)
	}
	return bits.OnesCount32(v), nil
}

// ParseMask accepts either a CIDR prefix length ("24") or a dotted-decimal
// mask ("255.255.255.0") and returns the prefix length.
func ParseMask(token string) (int, error) {
	if strings.Contains(token, ".") {
		return MaskToPrefixLen(token)
	}
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 || n > 32 {
		return 0, fmt.Errorf("invalid mask '%s'", token)
	}
	return n, nil
}

// PrefixLenToMask converts a prefix length to a dotted-decimal mask.
// Lengths above 32 clamp to a host mask.
func PrefixLenToMask(prefixLen int) string {
	if prefixLen > 32 {
		return "255.255.255.255"
	}
	if prefixLen <= 0 {
		return "0.0.0.0"
	}
	return formatIPv4(^uint32(0) << (32 - prefixLen))
}

// ComputeNetworkAddr returns the network address for a given IP and mask.
// Returns the input unchanged if it is not an IPv4 literal.
func ComputeNetworkAddr(ipStr string, maskLen int) string {
	v, ok := parseIPv4(ipStr)
	if !ok {
		return ipStr
	}
	var mask uint32
	switch {
	case maskLen >= 32:
		mask = ^uint32(0)
	case maskLen <= 0:
		mask = 0
	default:
		mask = ^uint32(0) << (32 - maskLen)
	}
	return formatIPv4(v & mask)
}

// FormatIPWithMask joins an address and prefix length in CIDR notation
func FormatIPWithMask(ip string, maskLen int) string {
	return ip + "/" + strconv.Itoa(maskLen)
}

const maxASN = 4294967295 // max uint32, 4-byte ASN range

// ValidateASN checks if an AS number is valid (1 to 4294967295).
func ValidateASN(asn int64) error {
	if asn < 1 || asn > maxASN {
		return fmt.Errorf("AS number must be between 1 and %d, got %d", maxASN, asn)
	}
	return nil
}

// ParseASN parses and validates a textual AS number.
func ParseASN(s string) (int64, error) {
	asn, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid AS number '%s'", s)
	}
	if err := ValidateASN(asn); err != nil {
		return 0, err
	}
	return asn, nil
}
