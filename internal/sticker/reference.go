package sticker

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultSize is the display size used when none (or an invalid one) is configured.
const DefaultSize = 50

// FormatReference builds the embed reference inserted into a document.
// path is not escaped; resolvers only hand out host-assigned paths.
func FormatReference(path string, size int) string {
	return fmt.Sprintf("![[%s|%d]]", path, EffectiveSize(size))
}

// EffectiveSize substitutes DefaultSize for non-positive sizes.
func EffectiveSize(size int) int {
	if size <= 0 {
		return DefaultSize
	}
	return size
}

// ParseSize reads a size typed into a settings field. Like a lenient integer
// parse it uses the leading digits ("12px" is 12). Anything that does not
// yield a positive integer becomes DefaultSize; no error is reported.
func ParseSize(input string) int {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "+")

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return DefaultSize
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return DefaultSize
	}
	return n
}
