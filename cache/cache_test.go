package cache

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"imagetools/api/model"
	"imagetools/config"
	"testing"
)

var testNamespace = Namespace(BackendNone, 90, 90)

func TestKeyIsStable(t *testing.T) {
	req := model.ConversionRequest{
		Image:     []byte("pixels"),
		MediaType: "image/png",
		Options:   model.ConversionOptions{Format: "webp", Width: 10},
	}

	first, err := Key(testNamespace, req)
	require.NoError(t, err)
	second, err := Key(testNamespace, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "img_convert:")
}

func TestKeyChangesWithInputs(t *testing.T) {
	base := model.ConversionRequest{
		Image:     []byte("pixels"),
		MediaType: "image/png",
		Options:   model.ConversionOptions{Format: "webp"},
	}
	baseKey, err := Key(testNamespace, base)
	require.NoError(t, err)

	variants := []model.ConversionRequest{
		{Image: []byte("pixelz"), MediaType: base.MediaType, Options: base.Options},
		{Image: base.Image, MediaType: "image/jpeg", Options: base.Options},
		{Image: base.Image, MediaType: base.MediaType, Options: model.ConversionOptions{Format: "png"}},
		{Image: base.Image, MediaType: base.MediaType, Options: model.ConversionOptions{
			Format:      "webp",
			Compression: &model.CompressionSpec{Kind: model.CompressionPercentage, Value: 40},
		}},
	}

	for _, v := range variants {
		key, err := Key(testNamespace, v)
		require.NoError(t, err)
		assert.NotEqual(t, baseKey, key)
	}
}

func TestKeyChangesWithEncoderSettings(t *testing.T) {
	req := model.ConversionRequest{
		Image:     []byte("pixels"),
		MediaType: "image/png",
		Options:   model.ConversionOptions{Format: "jpg"},
	}

	base, err := Key(Namespace("vips", 90, 90), req)
	require.NoError(t, err)

	for _, ns := range []string{
		Namespace("native", 90, 90),
		Namespace("vips", 75, 90),
		Namespace("vips", 90, 75),
	} {
		key, err := Key(ns, req)
		require.NoError(t, err)
		assert.NotEqual(t, base, key, ns)
	}
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}

	require.NoError(t, c.Set(context.Background(), "k", []byte("v")))
	data, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestNewSelectsBackend(t *testing.T) {
	c, err := New(config.Cache{Backend: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)

	c, err = New(config.Cache{Backend: BackendDragonfly, Dragonfly: config.Dragonfly{Host: "localhost", Port: 6379}})
	require.NoError(t, err)
	assert.IsType(t, &Dragonfly{}, c)

	_, err = New(config.Cache{Backend: BackendS3})
	assert.Error(t, err)

	_, err = New(config.Cache{Backend: "memcached"})
	assert.Error(t, err)
}
