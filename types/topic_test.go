package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/mqtt-processor/types"
)

func TestNewStaticRule(t *testing.T) {
	p, err := types.New("a/b/c")
	require.NoError(t, err)
	assert.True(t, p.IsStatic())
	assert.Empty(t, p.Placeholders())
}

func TestNewDynamicRule(t *testing.T) {
	p, err := types.New("devices/{w1}/telemetry")
	require.NoError(t, err)
	assert.False(t, p.IsStatic())
	require.Len(t, p.Placeholders(), 1)
	assert.Equal(t, "w1", p.Placeholders()[0].Name)
	assert.Equal(t, types.SingleLevel, p.Placeholders()[0].Kind)
}

func TestNewRejectsMalformedPlaceholder(t *testing.T) {
	_, err := types.New("devices/{w1/telemetry")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidTopic)
}

func TestNewRejectsEmptySegment(t *testing.T) {
	_, err := types.New("devices//{w1}")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidTopic)
}

func TestToSubscriptionForm(t *testing.T) {
	p := types.MustNew("devices/{w1}/sensors/{W2}")
	assert.Equal(t, "devices/+/sensors/#", p.ToSubscriptionForm())

	static := types.MustNew("devices/all")
	assert.Equal(t, "devices/all", static.ToSubscriptionForm())
}

func TestMatchStatic(t *testing.T) {
	p := types.MustNew("devices/all")
	match := types.MustNew("devices/all")
	miss := types.MustNew("devices/none")

	bindings, ok := p.Match(match)
	require.True(t, ok)
	assert.Empty(t, bindings)

	_, ok = p.Match(miss)
	assert.False(t, ok)
}

func TestMatchDynamic(t *testing.T) {
	p := types.MustNew("devices/{w1}/telemetry")
	concrete := types.MustNew("devices/sensor-12/telemetry")

	bindings, ok := p.Match(concrete)
	require.True(t, ok)
	assert.Equal(t, "sensor-12", bindings["w1"])
}

func TestMatchRepeatedNameRequiresSameCapture(t *testing.T) {
	p := types.MustNew("bridge/{w1}/echo/{w1}")

	agree := types.MustNew("bridge/north/echo/north")
	bindings, ok := p.Match(agree)
	require.True(t, ok)
	assert.Equal(t, "north", bindings["w1"])

	disagree := types.MustNew("bridge/north/echo/south")
	_, ok = p.Match(disagree)
	assert.False(t, ok)
}

func TestMatchMultiLevel(t *testing.T) {
	p := types.MustNew("archive/{W1}")
	concrete := types.MustNew("archive/2024/06/01/readings")

	bindings, ok := p.Match(concrete)
	require.True(t, ok)
	assert.Equal(t, "2024/06/01/readings", bindings["W1"])
}

func TestComposeSubstitutesBindings(t *testing.T) {
	source := types.MustNew("devices/{w1}/raw")
	sink := types.MustNew("devices/{w1}/clean")
	concrete := types.MustNew("devices/sensor-7/raw")

	out, err := source.Compose(concrete, sink)
	require.NoError(t, err)
	assert.Equal(t, "devices/sensor-7/clean", out.Rule())
}

func TestComposeStaticSourceReturnsSinkUnchanged(t *testing.T) {
	source := types.MustNew("devices/all")
	sink := types.MustNew("archive/all")
	concrete := types.MustNew("devices/all")

	out, err := source.Compose(concrete, sink)
	require.NoError(t, err)
	assert.Same(t, sink, out)
}

func TestComposeMismatchFails(t *testing.T) {
	source := types.MustNew("devices/{w1}/raw")
	sink := types.MustNew("devices/{w1}/clean")
	concrete := types.MustNew("devices/sensor-7/other")

	_, err := source.Compose(concrete, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCompositionMismatch)
}

func TestUnboundPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"{w2}"}, types.UnboundPlaceholders("devices/bound/{w2}"))
	assert.Nil(t, types.UnboundPlaceholders("devices/bound/value"))
}

func TestEqual(t *testing.T) {
	a := types.MustNew("devices/{w1}")
	b := types.MustNew("devices/{w1}")
	c := types.MustNew("devices/{w2}")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
