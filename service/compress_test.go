package service

import (
	"context"
	"errors"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/converter/image/native"
	"testing"
)

// sizedEncoder produces output whose length is fixed per quality.
type sizedEncoder struct {
	sizes     func(quality int) int
	qualities []int
	err       error
}

func (s *sizedEncoder) Encode(_ context.Context, _ img.Image, quality int) ([]byte, error) {
	s.qualities = append(s.qualities, quality)
	if s.err != nil {
		return nil, s.err
	}
	return make([]byte, s.sizes(quality)), nil
}

type jpegOnlyCodec struct {
	img.Codec
	jpeg img.Encoder
}

func (c *jpegOnlyCodec) Encoder(t img.Type) img.Encoder {
	if t == img.JPEG {
		return c.jpeg
	}
	return nil
}

func TestSearchQualityStopsAtFirstFit(t *testing.T) {
	enc := &sizedEncoder{sizes: func(q int) int { return q * 10 }}

	result, err := SearchQuality(context.Background(), &jpegOnlyCodec{jpeg: enc}, nil, 800)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 95, 90, 85, 80}, enc.qualities)
	assert.Equal(t, 80, result.Quality)
	assert.Equal(t, 5, result.Attempts)
	assert.Len(t, result.Data, 800)
}

func TestSearchQualityFirstAttemptFits(t *testing.T) {
	enc := &sizedEncoder{sizes: func(q int) int { return q }}

	result, err := SearchQuality(context.Background(), &jpegOnlyCodec{jpeg: enc}, nil, 1<<20)
	require.NoError(t, err)

	assert.Equal(t, 100, result.Quality)
	assert.Equal(t, 1, result.Attempts)
}

func TestSearchQualityGivesUpAtFloor(t *testing.T) {
	enc := &sizedEncoder{sizes: func(q int) int { return 1000 + q }}

	result, err := SearchQuality(context.Background(), &jpegOnlyCodec{jpeg: enc}, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Attempts)
	assert.Equal(t, 5, result.Quality)
	assert.Len(t, result.Data, 1005)
	assert.NotContains(t, enc.qualities, 1)
}

func TestSearchQualityPropagatesEncodeError(t *testing.T) {
	boom := errors.New("boom")
	enc := &sizedEncoder{sizes: func(int) int { return 0 }, err: boom}

	_, err := SearchQuality(context.Background(), &jpegOnlyCodec{jpeg: enc}, nil, 10)
	assert.ErrorIs(t, err, boom)
}

func TestSearchQualityNeedsJpegEncoder(t *testing.T) {
	_, err := SearchQuality(context.Background(), &jpegOnlyCodec{}, nil, 10)
	assert.Error(t, err)
}

func TestSearchQualityOnRealImage(t *testing.T) {
	codec := native.MustCodec(zap.NewNop())
	src, err := codec.Decode(context.Background(), encode(t, noisy(256, 256), imaging.PNG))
	require.NoError(t, err)

	const target = 20 * 1024
	result, err := SearchQuality(context.Background(), codec, src, target)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Attempts, 20)
	assert.True(t, len(result.Data) <= target || result.Quality == 5)
}

func TestPercentageQualityShrinksJpeg(t *testing.T) {
	codec := native.MustCodec(zap.NewNop())
	src, err := codec.Decode(context.Background(), encode(t, noisy(128, 128), imaging.PNG))
	require.NoError(t, err)

	full, err := codec.Encoder(img.JPEG).Encode(context.Background(), src, 100)
	require.NoError(t, err)
	half, err := codec.Encoder(img.JPEG).Encode(context.Background(), src, 50)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(half), len(full))
}

func TestPercentageType(t *testing.T) {
	cases := []struct {
		format    string
		mediaType string
		want      img.Type
		ok        bool
	}{
		{"jpg", "image/png", img.JPEG, true},
		{"webp", "image/gif", img.WEBP, true},
		{"png", "", img.PNG, true},
		{"", "image/jpeg", img.JPEG, true},
		{"", "image/PNG", img.PNG, true},
		{"", "image/gif", img.Type{}, false},
		{"bmp", "image/png", img.Type{}, false},
	}

	for _, tc := range cases {
		got, ok := percentageType(tc.format, tc.mediaType)
		assert.Equal(t, tc.ok, ok, "%s %s", tc.format, tc.mediaType)
		assert.Equal(t, tc.want, got, "%s %s", tc.format, tc.mediaType)
	}
}
