package repository

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateSnippet_ShortStringUnchanged(t *testing.T) {
	assert.Equal(t, "short headline", truncateSnippet("short headline", 300))
}

func TestTruncateSnippet_LongStringCappedWithEllipsis(t *testing.T) {
	long := strings.Repeat("a", 400)

	got := truncateSnippet(long, 300)
	assert.Len(t, got, 303)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTruncateSnippet_DoesNotSplitRunes(t *testing.T) {
	// Two-byte runes; a cap falling mid-rune must back up to the boundary.
	s := "aéé"

	got := truncateSnippet(s, 4)
	assert.Equal(t, "aé...", got)
	assert.True(t, utf8.ValidString(got))
}
