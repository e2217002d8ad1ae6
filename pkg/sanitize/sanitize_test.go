package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "Alice Martin", Text("  Alice Martin  "))
	assert.Equal(t, "scriptalert(1)/script", Text("<script>alert(1)</script>"))
	assert.Len(t, Text(strings.Repeat("a", 1500)), 1000)
	assert.Equal(t, "", Text("   "))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "alice@club.fr", Email("  Alice@Club.FR "))
	assert.Equal(t, "", Email("pas-un-email"))
	assert.Equal(t, "", Email("a b@club.fr"))
	assert.Equal(t, "", Email(""))
}

func TestLooksLikeScript(t *testing.T) {
	assert.True(t, LooksLikeScript("<SCRIPT>alert(1)</script>"))
	assert.True(t, LooksLikeScript("javascript:void(0)"))
	assert.True(t, LooksLikeScript(`<img onerror=x>`))
	assert.False(t, LooksLikeScript("Alice Martin"))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 5.0, Number(5, 0, 10))
	assert.Equal(t, 0.0, Number(-3, 0, 10))
	assert.Equal(t, 10.0, Number(42, 0, 10))
}
