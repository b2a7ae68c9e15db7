package boundary

import "strings"

// checkEncoded decodes candidate once and twice and reports traversal that only
// appears after decoding. Traversal already visible in the raw input is left
// for the segment check so it is reported as plain traversal.
func checkEncoded(candidate string) (Reason, bool) {
	once := percentDecode(candidate)
	if once == candidate {
		return "", true
	}
	if strings.ContainsRune(once, 0) {
		return ReasonNullByte, false
	}
	if hasTraversalSegment(once) && !hasTraversalSegment(candidate) {
		if strings.Contains(strings.ToLower(candidate), "%5c") && hasBackslashTraversal(once) {
			return ReasonEncodedBackslashTraversal, false
		}
		return ReasonEncodedTraversal, false
	}

	twice := percentDecode(once)
	if twice == once {
		return "", true
	}
	if strings.ContainsRune(twice, 0) {
		return ReasonNullByte, false
	}
	if hasTraversalSegment(twice) && !hasTraversalSegment(once) {
		return ReasonDoubleEncodedTraversal, false
	}
	return "", true
}

// percentDecode decodes every well-formed %XX escape in s and keeps malformed
// ones literally, so names like "100%.md" survive untouched.
func percentDecode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
