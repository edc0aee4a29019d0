package item

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSetDeduplicatesKeepingOrder(t *testing.T) {
	s := NewValueSet("b", "a", "b", "c", "a")
	assert.Equal(t, []string{"b", "a", "c"}, s.Values())
	assert.Equal(t, 3, s.Len())
}

func TestValueSetAddRemove(t *testing.T) {
	s := NewValueSet("a")
	assert.True(t, s.Add("b"))
	assert.False(t, s.Add("b"))
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"b"}, s.Values())
}

func TestValueSetEqualIgnoresOrder(t *testing.T) {
	assert.True(t, NewValueSet("a", "b").Equal(NewValueSet("b", "a")))
	assert.False(t, NewValueSet("a", "b").Equal(NewValueSet("a")))
	assert.False(t, NewValueSet("a").Equal(NewValueSet("b")))

	var nilSet *ValueSet
	assert.True(t, nilSet.Equal(NewValueSet()))
	assert.False(t, nilSet.Equal(NewValueSet("a")))
}

func TestValueSetUnionDifferenceArePure(t *testing.T) {
	a := NewValueSet("1", "2")
	b := NewValueSet("2", "3")

	assert.Equal(t, []string{"1", "2", "3"}, a.Union(b).Values())
	assert.Equal(t, []string{"1"}, a.Difference(b).Values())

	assert.Equal(t, []string{"1", "2"}, a.Values())
	assert.Equal(t, []string{"2", "3"}, b.Values())
}

func TestValueSetDifferenceNilSubtrahend(t *testing.T) {
	a := NewValueSet("1", "2")
	assert.True(t, a.Difference(nil).Equal(a))
}

func TestValueSetJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(NewValueSet("x", "y"))
	require.NoError(t, err)
	assert.JSONEq(t, `["x","y"]`, string(data))

	var s ValueSet
	require.NoError(t, json.Unmarshal(data, &s))
	assert.True(t, s.Equal(NewValueSet("x", "y")))
}

func TestItemEqualTreatsEmptySetAsAbsent(t *testing.T) {
	a := Item{"a": NewValueSet("1"), "b": NewValueSet()}
	b := Item{"a": NewValueSet("1")}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	c := Item{"a": NewValueSet("1"), "b": NewValueSet("2")}
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))
}

func TestItemCloneIsDeep(t *testing.T) {
	orig := Item{"a": NewValueSet("1")}
	clone := orig.Clone()
	clone["a"].Add("2")
	assert.Equal(t, []string{"1"}, orig["a"].Values())
}
