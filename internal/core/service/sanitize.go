package service

import "strings"

// htmlEscaper mirrors the entity table used by the board's form sanitiser.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// sanitizeText trims surrounding whitespace and escapes HTML-unsafe characters.
func sanitizeText(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}
