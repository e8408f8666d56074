package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// TemplateHash derives a stable content hash from a template's numeric
// parameters. Banks that ship their own hashes take precedence; this is the
// fallback for plain-text banks that carry only the physical columns.
func TemplateHash(vals ...float64) string {
	h := sha1.New()
	for _, v := range vals {
		fmt.Fprintf(h, "%.17g ", v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
