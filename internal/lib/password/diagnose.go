package password

import (
	"fmt"
	"strings"
)

// Report lists every hash the legacy schemes produce for password, so an
// operator can see which one, if any, the stored hash came from.
func Report(storedHash, salt, password string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Stored: %s\n", storedHash)
	fmt.Fprintf(&sb, "Salt (raw): '%s'\n", salt)

	for _, enc := range Encodings {
		fmt.Fprintf(&sb, "--- Encoding: %s ---\n", enc.Name)
		for _, variant := range SaltVariants(salt) {
			for _, c := range []Composition{HexSaltFirst, HexSaltLast, TextSaltFirst, TextSaltLast} {
				fmt.Fprintf(&sb, "salt='%s' %s: %s\n", variant, c, ComputeHash(enc, variant, password, c))
			}
		}
	}

	fmt.Fprintf(&sb, "Computed SHA256(password) with UTF-8: %s\n", sha256Hex(UTF8.Encode(password)))
	fmt.Fprintf(&sb, "Computed SHA256(password) with UTF-16LE: %s\n", sha256Hex(UTF16LE.Encode(password)))
	fmt.Fprintf(&sb, "SaltLooksLikeHex: %t\n", LooksLikeHex(salt))

	return sb.String()
}
