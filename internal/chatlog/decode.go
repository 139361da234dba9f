package chatlog

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw export bytes into text: UTF-8 with the BOM removed, or
// CP949 for older Windows exports. Bytes CP949 cannot decode are dropped.
func Decode(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return strings.ReplaceAll(string(out), string(utf8.RuneError), "")
}
