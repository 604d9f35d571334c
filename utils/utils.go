package utils

import (
	// Go Internal Packages
	"strings"
)

// NameSeparator joins client names in descriptions and ledger records.
// Names are not escaped.
const NameSeparator = ","

func JoinNames(names []string) string {
	return strings.Join(names, NameSeparator)
}

// SplitNames is the inverse of JoinNames. An empty string yields no names.
func SplitNames(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, NameSeparator)
}
