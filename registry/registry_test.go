package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bittoy/mqtt-processor/registry"
	"github.com/bittoy/mqtt-processor/testutil"
	"github.com/bittoy/mqtt-processor/types"
)

func TestRegisterAndLookup(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("dummy_rule_true", testutil.DummyRuleTrue()))

	fn, ok := reg.Lookup("dummy_rule_true")
	require.True(t, ok)
	assert.Equal(t, types.KindRule, fn.Kind())
}

func TestRegisterDuplicateNameFails(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("dummy_rule_true", testutil.DummyRuleTrue()))

	err := reg.Register("dummy_rule_true", testutil.DummyRuleFalse())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrDuplicateName)
}

func TestSnapshotIsIndependent(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("dummy_rule_true", testutil.DummyRuleTrue()))

	snap := reg.Snapshot()
	require.NoError(t, reg.Register("dummy_rule_false", testutil.DummyRuleFalse()))

	_, ok := snap.Lookup("dummy_rule_false")
	assert.False(t, ok)
}

func TestBindUnknownFunctionFails(t *testing.T) {
	reg := registry.New()
	_, err := registry.Bind(reg, "does_not_exist", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownFunction)
}

func TestBindArityMismatchFails(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("dummy_rule_true", testutil.DummyRuleTrue()))

	_, err := registry.Bind(reg, "dummy_rule_true", map[string]any{"unexpected": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrArityMismatch)
}

func TestBindingInvoke(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register("dummy_str_concat1", testutil.DummyStrConcat1()))

	b, err := registry.Bind(reg, "dummy_str_concat1", map[string]any{})
	require.NoError(t, err)

	out, err := b.Invoke("hello", "some/topic", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello<concat1>", out)
}
