package patfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain fields",
			input:    "1,SITE,Workshop",
			expected: []string{"1", "SITE", "Workshop"},
		},
		{
			name:     "quoted comma",
			input:    `1,NOTE,"kettle, rewired"`,
			expected: []string{"1", "NOTE", "kettle, rewired"},
		},
		{
			name:     "quotes removed",
			input:    `"SITE","Appleby Tech"`,
			expected: []string{"SITE", "Appleby Tech"},
		},
		{
			name:     "tokens not trimmed",
			input:    "1, SITE ,  Workshop",
			expected: []string{"1", " SITE ", "  Workshop"},
		},
		{
			name:     "empty line yields one empty token",
			input:    "",
			expected: []string{""},
		},
		{
			name:     "trailing comma yields empty token",
			input:    "1,NOTE,",
			expected: []string{"1", "NOTE", ""},
		},
		{
			name:     "unterminated quote swallows commas",
			input:    `1,"a,b`,
			expected: []string{"1", "a,b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLine(tt.input))
		})
	}
}

func TestCursor(t *testing.T) {
	cur := &cursor{tokens: []string{"a", "b", "c"}}

	tok, ok := cur.peek()
	assert.True(t, ok)
	assert.Equal(t, "a", tok)

	// Peek does not consume.
	tok, ok = cur.next()
	assert.True(t, ok)
	assert.Equal(t, "a", tok)

	cur.skip(5) // skipping past the end is safe
	_, ok = cur.next()
	assert.False(t, ok)
	_, ok = cur.peek()
	assert.False(t, ok)
}
