//go:build !unix

package native

import "strings"

// isNotEmpty reports whether err is the OS's non-empty-directory error.
// Without a portable errno to match, fall back on the message.
func isNotEmpty(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "not empty")
}
