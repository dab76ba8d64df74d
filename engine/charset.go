package engine

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// DecodeBody converts raw response bytes to a UTF-8 string, handling the
// legacy GBK/GB2312 encodings still common on Chinese sites.
//
// Order of checks:
//  1. Content-Type charset label starting with "gb" → decode as GBK.
//  2. Strict UTF-8 decode; if it succeeds but the first 1 KiB of the
//     document declares a gb* charset in a meta tag, redecode as GBK
//     (servers frequently mislabel legacy pages as UTF-8).
//  3. Invalid UTF-8 → decode as GBK.
func DecodeBody(body []byte, contentType string) string {
	if charsetLabel(contentType) == "gb" {
		return decodeGBK(body)
	}

	if utf8.Valid(body) {
		text := string(body)
		if hasMetaGBCharset(text) {
			return decodeGBK(body)
		}
		return text
	}

	return decodeGBK(body)
}

// charsetLabel extracts the first two letters of the charset parameter of a
// Content-Type header, lowercased. Returns "" when absent.
func charsetLabel(contentType string) string {
	lower := strings.ToLower(contentType)
	idx := strings.Index(lower, "charset=")
	if idx < 0 {
		return ""
	}
	label := strings.Trim(lower[idx+len("charset="):], `"' `)
	if len(label) < 2 {
		return label
	}
	return label[:2]
}

// hasMetaGBCharset sniffs the first 1 KiB of decoded text for a meta tag
// declaring a gb* charset (quoted or not).
func hasMetaGBCharset(text string) bool {
	head := text
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = strings.ToLower(head)
	return strings.Contains(head, `charset=gb`) ||
		strings.Contains(head, `charset="gb`) ||
		strings.Contains(head, `charset='gb`)
}

// decodeGBK decodes bytes as GBK (a superset of GB2312). On decoder failure
// the raw bytes are returned as-is rather than dropping the response.
func decodeGBK(body []byte) string {
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
