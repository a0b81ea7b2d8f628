package sources

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllIsACopy(t *testing.T) {
	list := All()
	require.Len(t, list, 3)
	assert.Equal(t, DefaultID, list[0].ID)

	list[0].ID = "changed"
	assert.Equal(t, DefaultID, All()[0].ID)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "up-manga", OrDefault(""))
	assert.Equal(t, "up-manga", OrDefault("  "))
	assert.Equal(t, "reapertrans", OrDefault("reapertrans"))
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index("up-manga"))
	assert.Equal(t, 2, Index("slow-manga"))
	assert.Equal(t, 0, Index("unknown"))
}

func TestImageURL(t *testing.T) {
	raw := "https://cdn.example.com/covers/a b.jpg"

	t.Run("direct source", func(t *testing.T) {
		assert.Equal(t, raw, ImageURL("http://api:8000", raw, "up-manga"))
	})

	t.Run("unknown source", func(t *testing.T) {
		assert.Equal(t, raw, ImageURL("http://api:8000", raw, "other"))
	})

	t.Run("proxied source", func(t *testing.T) {
		got := ImageURL("http://api:8000/", raw, "reapertrans")
		u, err := url.Parse(got)
		require.NoError(t, err)
		assert.Equal(t, "/proxy-image", u.Path)
		assert.Equal(t, raw, u.Query().Get("url"))
		assert.Equal(t, "reapertrans", u.Query().Get("source"))
	})

	t.Run("empty url", func(t *testing.T) {
		assert.Empty(t, ImageURL("http://api:8000", "", "slow-manga"))
	})
}
