package pending

import "strings"

// keyReplacer maps characters the key grammar reserves to a placeholder.
var keyReplacer = strings.NewReplacer(
	".", "_",
	"#", "_",
	"$", "_",
	"/", "_",
	"[", "_",
	"]", "_",
)

// NormalizeKey derives the store key for an email address.
func NormalizeKey(email string) string {
	return keyReplacer.Replace(strings.ToLower(strings.TrimSpace(email)))
}
