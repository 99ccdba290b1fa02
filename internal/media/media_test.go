package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYouTubeResolve(t *testing.T) {
	src, err := YouTube{}.Resolve(" dQw4w9WgXcQ ")
	require.NoError(t, err)
	assert.Equal(t, ProviderYouTube, src.Provider)
	assert.Equal(t, "dQw4w9WgXcQ", src.MediaID)
	assert.True(t, strings.HasPrefix(src.URL, "https://www.youtube.com/embed/dQw4w9WgXcQ?"))
	assert.Contains(t, src.URL, "mute=1")
	assert.Contains(t, src.URL, "playsinline=1")
}

func TestYouTubeResolve_Empty(t *testing.T) {
	_, err := YouTube{}.Resolve("  ")
	assert.ErrorIs(t, err, ErrEmptyMediaID)
}

func TestCloudinaryResolve(t *testing.T) {
	r, err := New("cloudinary", "demo", "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, ProviderCloudinary, r.Provider())

	src, err := r.Resolve("funnel/reveal")
	require.NoError(t, err)
	assert.Contains(t, src.URL, "demo")
	assert.Contains(t, src.URL, "/video/upload/")
	assert.Contains(t, src.URL, "funnel/reveal")
}

func TestNew(t *testing.T) {
	r, err := New("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, ProviderYouTube, r.Provider())

	_, err = New("cloudinary", "demo", "", "")
	assert.Error(t, err)

	_, err = New("vimeo", "", "", "")
	assert.Error(t, err)
}
