package payfast

// The signature covers every non-empty field of the payment payload. Both
// sides build the same base string: keys sorted, empty values dropped, each
// value trimmed and form-encoded with spaces as '+', pairs joined with '&',
// and the passphrase appended last when one is configured. The digest is the
// lowercase hex MD5 of that string. MD5 is the provider's requirement, not a
// choice this package gets to make.

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the provider signature over a field map.
func Sign(fields map[string]string, passphrase string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var base strings.Builder
	for _, key := range keys {
		value := fields[key]
		if value == "" {
			continue
		}
		if base.Len() > 0 {
			base.WriteByte('&')
		}
		base.WriteString(key)
		base.WriteByte('=')
		base.WriteString(encodeField(value))
	}
	if passphrase != "" {
		base.WriteString("&passphrase=")
		base.WriteString(encodeField(passphrase))
	}

	sum := md5.Sum([]byte(base.String()))
	return hex.EncodeToString(sum[:])
}

// VerifySignature recomputes the signature over all fields except the
// signature field itself and compares byte-for-byte.
func VerifySignature(fields map[string]string, passphrase string) bool {
	received, ok := fields[fieldSignature]
	if !ok || received == "" {
		return false
	}
	unsigned := make(map[string]string, len(fields)-1)
	for key, value := range fields {
		if key == fieldSignature {
			continue
		}
		unsigned[key] = value
	}
	return Sign(unsigned, passphrase) == received
}

const upperhex = "0123456789ABCDEF"

// encodeField percent-encodes a trimmed value the way the provider expects:
// unreserved characters and the marks !*'() pass through, spaces become '+',
// everything else is %XX with uppercase hex.
func encodeField(value string) string {
	value = strings.TrimSpace(value)
	var out strings.Builder
	out.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == ' ':
			out.WriteByte('+')
		case isFieldSafe(c):
			out.WriteByte(c)
		default:
			out.WriteByte('%')
			out.WriteByte(upperhex[c>>4])
			out.WriteByte(upperhex[c&0x0f])
		}
	}
	return out.String()
}

func isFieldSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '~', '!', '*', '\'', '(', ')':
		return true
	}
	return false
}
