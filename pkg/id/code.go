package id

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code formats a numeric id as a human-readable sequence code, zero padded
// to at least three digits: Code("T", 7) == "T007", Code("T", 1234) == "T1234".
func Code(prefix string, n uint64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// ParseCode accepts either a bare numeric id ("12") or a prefixed code ("T012").
func ParseCode(prefix, raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.New("empty id")
	}
	digits := raw
	if strings.HasPrefix(strings.ToUpper(raw), strings.ToUpper(prefix)) {
		digits = raw[len(prefix):]
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return n, nil
}
