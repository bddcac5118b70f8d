package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategorySet(t *testing.T) {
	set, err := NewCategorySet("Sweet", "Sour", "Sweet", "Boozy")
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	if diff := cmp.Diff([]Category{"Sweet", "Sour", "Boozy"}, set.All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, set.Contains("Sour"))
	assert.False(t, set.Contains("sour"), "membership is case sensitive")
}

func TestNewCategorySet_Invalid(t *testing.T) {
	_, err := NewCategorySet()
	assert.Error(t, err)

	_, err = NewCategorySet("Sweet", "  ")
	assert.Error(t, err)
}

func TestCategorySet_AllReturnsCopy(t *testing.T) {
	set, err := NewCategorySet("Sweet", "Sour")
	require.NoError(t, err)

	all := set.All()
	all[0] = "Salty"
	assert.True(t, set.Contains("Sweet"))
	assert.False(t, set.Contains("Salty"))
}

func TestSelection_VocabularyOrder(t *testing.T) {
	set, err := NewCategorySet("Sweet", "Bitter", "Sour")
	require.NoError(t, err)

	sel := emptySelection(set).with("Sour").with("Sweet")
	assert.Equal(t, []string{"Sweet", "Sour"}, sel.Strings())

	sel2 := sel.without("Sweet")
	assert.Equal(t, []string{"Sour"}, sel2.Strings())
	assert.Equal(t, 2, sel.Len(), "with/without must not mutate the receiver")
}

func TestSelection_EmptyStringsNotNil(t *testing.T) {
	set, err := NewCategorySet("Sweet")
	require.NoError(t, err)

	strs := emptySelection(set).Strings()
	assert.NotNil(t, strs)
	assert.Empty(t, strs)
}

func TestUnknownCategoryError(t *testing.T) {
	var err error = &UnknownCategoryError{Category: "Salty"}
	assert.Equal(t, `unknown category "Salty"`, err.Error())

	var target *UnknownCategoryError
	assert.True(t, errors.As(err, &target))
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultEmptyQuery},
		{"   \n\t", DefaultEmptyQuery},
		{"for a party", "for a party"},
		{"  for a party  ", "for a party"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeQuery(tt.in, DefaultEmptyQuery), "input %q", tt.in)
	}
}
