// Package privacy provides helpers that keep personally identifiable
// information out of logs, traces and audit events.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/netip"
	"strings"
)

// AnonymizeIP truncates an address to its network: /24 for IPv4 and /48 for
// IPv6. It returns "unknown" for an empty value and "invalid" when the value
// is not an address.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()
	if addr.Is4() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.%d.0", b[0], b[1], b[2])
	}
	b := addr.As16()
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::", b[0], b[1], b[2], b[3], b[4], b[5])
}

// RedactDocumentNumber keeps the last four characters of a document number,
// which is enough for an operator to match a support request.
func RedactDocumentNumber(number string) string {
	const visible = 4
	if number == "" {
		return ""
	}
	if len(number) <= visible {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-visible) + number[len(number)-visible:]
}

// HashDocumentNumber returns a short SHA-256 digest of the issuing state and
// document number. It correlates events about the same document without
// exposing the number.
func HashDocumentNumber(issuingState, number string) string {
	if number == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(issuingState + ":" + number))
	return hex.EncodeToString(sum[:8])
}
