package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID converts the canonical string form of an identifier, as carried
// in a token subject or a path parameter, into the store key type. Keys are
// postgres bigint serials, so values above math.MaxInt64 are rejected.
func ParseID(s string) (uint, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.ParseUint(s, 10, 63)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid identifier %q", s)
	}
	return uint(id), nil
}

// FormatID is the inverse of ParseID.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
