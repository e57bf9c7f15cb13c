package service

import (
	"context"
	"fmt"
	img "imagetools/converter/image"
	"strings"
)

const (
	searchStartQuality = 100
	searchStep         = 5
	searchFloor        = 1
)

// SizeSearch is the outcome of a target-size quality search.
type SizeSearch struct {
	Data     []byte
	Quality  int
	Attempts int
}

// SearchQuality encodes as JPEG from quality 100 down in steps of 5 until the output fits in target bytes.
// Quality 1 is the floor; the search stops once it is reached without encoding at it, so at most 20 attempts run.
func SearchQuality(ctx context.Context, codec img.Codec, src img.Image, target int64) (*SizeSearch, error) {
	encoder := codec.Encoder(img.JPEG)
	if encoder == nil {
		return nil, fmt.Errorf("no jpeg encoder")
	}

	result := &SizeSearch{}
	for quality := searchStartQuality; quality > searchFloor; quality = max(searchFloor, quality-searchStep) {
		data, err := encoder.Encode(ctx, src, quality)
		if err != nil {
			return nil, fmt.Errorf("encode jpeg at quality %d: %w", quality, err)
		}

		result.Data = data
		result.Quality = quality
		result.Attempts++

		if int64(len(data)) <= target {
			break
		}
	}

	return result, nil
}

// percentageType picks the encoder for quality-percentage compression. The requested output format wins,
// otherwise the subtype of the declared media type. Anything outside jpeg/jpg/webp/png reports false and
// compression is skipped.
func percentageType(format, mediaType string) (img.Type, bool) {
	name := format
	if name == "" {
		_, name, _ = strings.Cut(mediaType, "/")
	}

	t, err := img.MakeFromString(strings.ToLower(name))
	if err != nil {
		return img.Type{}, false
	}
	return t, true
}
