package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressHexLength is the expected number of hex characters in an address.
const AddressHexLength = 40

// ParseAddress decodes a 20-byte account identity from its hex encoding. The
// optional 0x prefix is accepted.
func ParseAddress(raw string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		trimmed = trimmed[2:]
	}
	if len(trimmed) != AddressHexLength {
		return addr, fmt.Errorf("address must be 20 bytes (got %d hex chars)", len(trimmed))
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("decode address: %w", err)
	}
	copy(addr[:], decoded)
	return addr, nil
}
