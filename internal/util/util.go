package util

import (
	"strconv"
	"strings"
)

// ConvertStringToInt parses a base-10 int, rejecting anything else.
func ConvertStringToInt(src string) (int, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(src), 10, 0)
	if err != nil {
		return 0, err
	}
	return int(parsed), nil
}

// HasPrefixes returns true if the string s has any of the given prefixes.
func HasPrefixes(src string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(src, prefix) {
			return true
		}
	}
	return false
}

// TrimmedOrNil returns nil for a blank string, a pointer to the trimmed value otherwise.
func TrimmedOrNil(src string) *string {
	v := strings.TrimSpace(src)
	if v == "" {
		return nil
	}
	return &v
}
