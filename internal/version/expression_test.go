package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExpressionKinds(t *testing.T) {
	assert.Equal(t, KindAny, ParseExpression("").Kind())
	assert.Equal(t, KindAny, ParseExpression("+").Kind())
	assert.Equal(t, KindAny, ParseExpression("0+").Kind())
	assert.Equal(t, KindExact, ParseExpression("17.0.2").Kind())
	assert.Equal(t, KindAtLeast, ParseExpression("11+").Kind())
}

func TestExpressionStringRoundTrips(t *testing.T) {
	for _, s := range []string{"", "17", "17.0.2", "11+"} {
		e := ParseExpression(s)
		reparsed := ParseExpression(e.String())
		assert.Equal(t, e.Kind(), reparsed.Kind())
		assert.Equal(t, e.Value(), reparsed.Value())
	}
}

func TestExactExpressionMatchesComponentPrefix(t *testing.T) {
	e := ParseExpression("17")
	assert.True(t, e.Matches("17.0.3", "temurin"))
	assert.True(t, e.Matches("17", "temurin"))
	assert.False(t, e.Matches("18.0.0", "temurin"))
}

func TestAtLeastExpressionMatchesEqualAndGreater(t *testing.T) {
	e := ParseExpression("11+")
	assert.True(t, e.Matches("11", "temurin"))
	assert.True(t, e.Matches("17.0.2", "temurin"))
	assert.False(t, e.Matches("8", "temurin"))
}

func TestAnyExpressionMatchesEverything(t *testing.T) {
	assert.True(t, Any.Matches("8", "temurin"))
	assert.True(t, Any.Matches("21.0.5", "graalvm-ce"))
}
