package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt(Request{Query: "for a party", Tags: []string{"Sweet", "Fruity"}})
	assert.Equal(t, "Taste preferences: Sweet, Fruity\nRequest: for a party", got)

	got = BuildPrompt(Request{Query: "no categories selected"})
	assert.Equal(t, "Taste preferences: none given\nRequest: no categories selected", got)
}

func TestNewGenAIBackend_RequiresKey(t *testing.T) {
	_, err := NewGenAIBackend(context.Background(), "", "")
	assert.Error(t, err)
}
