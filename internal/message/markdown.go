package message

import "strings"

// Characters Telegram MarkdownV2 reserves outside of entities
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

// Inside the (...) part of an inline link only ) and \ are reserved
var linkEscaper = strings.NewReplacer(`\`, `\\`, ")", `\)`)

// EscapeMarkdown escapes free text for a MarkdownV2 message
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// EscapeLinkTarget escapes a URL used as an inline link target
func EscapeLinkTarget(url string) string {
	return linkEscaper.Replace(url)
}
