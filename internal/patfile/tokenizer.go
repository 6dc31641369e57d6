package patfile

import "strings"

// splitLine splits one export line on commas, honoring double quotes.
// A quote character toggles quoted mode and is dropped from the output;
// commas inside quotes are literal. Tokens are not trimmed. Every input
// produces at least one token, so there is no error path.
func splitLine(line string) []string {
	tokens := make([]string, 0, 16)
	var b strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			tokens = append(tokens, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	tokens = append(tokens, b.String())

	return tokens
}

// cursor is a peekable view over a row's tokens. The optional-VISUAL
// probe peeks before consuming so a diagnostic row keeps its first
// variable-section key.
type cursor struct {
	tokens []string
	pos    int
}

func (c *cursor) next() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok, true
}

func (c *cursor) peek() (string, bool) {
	if c.pos >= len(c.tokens) {
		return "", false
	}
	return c.tokens[c.pos], true
}

// skip consumes up to n tokens, stopping early at end of row.
func (c *cursor) skip(n int) {
	c.pos += n
	if c.pos > len(c.tokens) {
		c.pos = len(c.tokens)
	}
}
