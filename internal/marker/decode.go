// SPDX-License-Identifier: MPL-2.0

package marker

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Decode converts raw file bytes to text. UTF-8 (the default for an empty
// label) drops invalid byte sequences instead of failing. Other WHATWG labels
// such as "latin1" or "utf-16le" are decoded with golang.org/x/text; an
// unknown label falls back to lenient UTF-8.
func Decode(data []byte, label string) string {
	enc := lookupEncoding(label)
	if enc == nil {
		return strings.ToValidUTF8(string(data), "")
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	// Replacement runes produced by the decoder are dropped like invalid UTF-8.
	return strings.ReplaceAll(string(out), "\uFFFD", "")
}

// lookupEncoding returns nil when label denotes UTF-8 or is unknown.
func lookupEncoding(label string) encoding.Encoding {
	label = strings.TrimSpace(strings.ToLower(label))
	switch label {
	case "", "utf-8", "utf8":
		return nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil
	}
	return enc
}
