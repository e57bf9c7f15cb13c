package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "3355", conf.Port)
	assert.Equal(t, 90, conf.Conversion.OutputJpegQuality)
	assert.Equal(t, 90, conf.Conversion.OutputWebpQuality)
	assert.Equal(t, 50*1024*1024, conf.Conversion.MaxUploadBytes())
	assert.Equal(t, "none", conf.Cache.Backend)
	assert.Equal(t, 5*time.Second, conf.RateLimitDuration)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("OUTPUT_JPEG_QUALITY", "75")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "2")
	t.Setenv("CACHE_BACKEND", "dragonfly")
	t.Setenv("DRAGONFLY_PORT", "6380")

	conf, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 75, conf.Conversion.OutputJpegQuality)
	assert.Equal(t, 2*1024*1024, conf.Conversion.MaxUploadBytes())
	assert.Equal(t, "dragonfly", conf.Cache.Backend)
	assert.Equal(t, 6380, conf.Cache.Dragonfly.Port)
}

func TestParseRejectsBadNumbers(t *testing.T) {
	t.Setenv("MAX_UPLOAD_SIZE_MB", "lots")

	_, err := Parse()
	assert.Error(t, err)
}

func TestParseRejectsNonPositiveUploadLimit(t *testing.T) {
	for _, v := range []string{"0", "-3"} {
		t.Setenv("MAX_UPLOAD_SIZE_MB", v)

		_, err := Parse()
		assert.ErrorContains(t, err, "MAX_UPLOAD_SIZE_MB", v)
	}
}

func TestAllowedOrigin(t *testing.T) {
	conf := &Config{Env: "development"}
	assert.Equal(t, "http://localhost:3000", conf.AllowedOrigin())

	conf.Env = EnvProduction
	assert.Equal(t, "https://imagetools.toolworks.dev", conf.AllowedOrigin())

	conf.CORSOrigin = "https://example.org"
	assert.Equal(t, "https://example.org", conf.AllowedOrigin())
}
