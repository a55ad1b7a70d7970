package role

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Get(t *testing.T) {
	c := NewCatalog()

	for _, id := range []ID{WebSearcher, Researcher, CodeWriter, Analyst, Master} {
		r, err := c.Get(id)
		require.NoError(t, err, "role %s", id)
		assert.Equal(t, id, r.ID)
		assert.NotEmpty(t, r.DisplayName)
		assert.NotEmpty(t, r.SystemPrompt)
	}
}

func TestCatalog_GetUnknown(t *testing.T) {
	c := NewCatalog()

	_, err := c.Get("time-traveler")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCatalog_Spawnable(t *testing.T) {
	c := NewCatalog()

	spawnable := c.Spawnable()
	require.Len(t, spawnable, 4)
	for _, r := range spawnable {
		assert.NotEqual(t, Master, r.ID)
		assert.NotEmpty(t, r.Tools, "spawnable role %s must declare tools", r.ID)
	}
	// Declaration order is stable.
	assert.Equal(t, WebSearcher, spawnable[0].ID)
	assert.Equal(t, Researcher, spawnable[1].ID)
}

func TestWebSearcherTools(t *testing.T) {
	c := NewCatalog()

	r, err := c.Get(WebSearcher)
	require.NoError(t, err)
	assert.Equal(t, []string{"duckduckgo", "wikipedia"}, r.Tools)
}
