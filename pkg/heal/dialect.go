package heal

import (
	"strings"
)

// Dialect builds the selectors the locator synthesizes for the text fallback
// and heuristic phases. Each driver understands a different selector syntax,
// so the dialect must match the Page the locator runs against.
type Dialect interface {
	// ExactText matches any element whose text equals text.
	ExactText(text string) string
	// ButtonText matches a button whose visible text equals text.
	ButtonText(text string) string
	// LinkText matches a hyperlink whose visible text equals text.
	LinkText(text string) string
	// NormalizedText matches any node whose whitespace-normalized text equals text.
	NormalizedText(text string) string
}

// heuristics returns the heuristic candidates for name in probe order.
func heuristics(d Dialect, name string) []string {
	return []string{
		d.ButtonText(name),
		d.LinkText(name),
		d.NormalizedText(name),
	}
}

// PlaywrightDialect emits Playwright selector engine syntax. It is the
// default dialect.
type PlaywrightDialect struct{}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func jsQuote(s string) string {
	return `"` + jsEscaper.Replace(s) + `"`
}

// ExactText returns text="...".
func (PlaywrightDialect) ExactText(text string) string {
	return "text=" + jsQuote(text)
}

// ButtonText returns button:has-text("...").
func (PlaywrightDialect) ButtonText(text string) string {
	return "button:has-text(" + jsQuote(text) + ")"
}

// LinkText returns a:has-text("...").
func (PlaywrightDialect) LinkText(text string) string {
	return "a:has-text(" + jsQuote(text) + ")"
}

// NormalizedText returns an XPath expression, which Playwright detects by the
// leading slashes.
func (PlaywrightDialect) NormalizedText(text string) string {
	return XPathDialect{}.NormalizedText(text)
}

// XPathDialect emits plain XPath 1.0 expressions for drivers without a text
// selector engine.
type XPathDialect struct{}

// ExactText matches elements with a text node equal to text.
func (XPathDialect) ExactText(text string) string {
	return "//*[text()=" + xpathLiteral(text) + "]"
}

// ButtonText matches buttons by normalized string value.
func (XPathDialect) ButtonText(text string) string {
	return "//button[normalize-space(.)=" + xpathLiteral(text) + "]"
}

// LinkText matches anchors by normalized string value.
func (XPathDialect) LinkText(text string) string {
	return "//a[normalize-space(.)=" + xpathLiteral(text) + "]"
}

// NormalizedText matches any node by its normalized own text.
func (XPathDialect) NormalizedText(text string) string {
	return "//*[normalize-space(text())=" + xpathLiteral(text) + "]"
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so strings holding both quote kinds are split with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	parts := strings.Split(s, `"`)
	var b strings.Builder
	b.WriteString("concat(")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(`, '"', `)
		}
		b.WriteString(`"` + part + `"`)
	}
	b.WriteString(")")
	return b.String()
}
