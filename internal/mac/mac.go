// Package mac converts between the 48-bit addresses used in configuration
// and the 64-bit extended addresses used on the mesh network.
package mac

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedAddress = errors.New("malformed address")

// extendedInfix is inserted after the organizationally unique prefix.
var extendedInfix = []string{"ff", "fe"}

// Normalize lower-cases and trims an address so it can be used as a map key.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// ToExtended turns "aa:bb:cc:dd:ee:ff" into "aa:bb:cc:ff:fe:dd:ee:ff".
func ToExtended(mac48 string) (string, error) {
	octets, err := split(mac48, 6)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, 8)
	out = append(out, octets[:3]...)
	out = append(out, extendedInfix...)
	out = append(out, octets[3:]...)
	return strings.Join(out, ":"), nil
}

// ToShort is the inverse of ToExtended: octets 4 and 5 are dropped.
func ToShort(mac64 string) (string, error) {
	octets, err := split(mac64, 8)
	if err != nil {
		return "", err
	}
	out := make([]string, 0, 6)
	out = append(out, octets[:3]...)
	out = append(out, octets[5:]...)
	return strings.Join(out, ":"), nil
}

func split(addr string, want int) ([]string, error) {
	octets := strings.Split(addr, ":")
	if len(octets) != want {
		return nil, fmt.Errorf("%w: %q has %d octets, want %d", ErrMalformedAddress, addr, len(octets), want)
	}
	for _, o := range octets {
		if len(o) != 2 || !isHex(o[0]) || !isHex(o[1]) {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAddress, addr)
		}
	}
	return octets, nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
