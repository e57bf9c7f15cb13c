package vips

import (
	"context"
	"fmt"
	"github.com/h2non/bimg"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

type Png struct {
	logger *zap.Logger
}

func MustPng(logger *zap.Logger) *Png {
	return &Png{logger: logger}
}

// Encode quantises to a palette when quality is below 100; a zero quality means lossless.
func (w *Png) Encode(ctx context.Context, i img.Image, quality int) ([]byte, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug(fmt.Sprintf("Converting image to png with quality: %d", quality))

	src, ok := i.(*Image)
	if !ok {
		return nil, img.ErrForeignImage
	}

	opts := bimg.Options{Type: bimg.PNG}
	if quality > 0 && quality < 100 {
		opts.Palette = true
		opts.Quality = quality
	}

	buf, err := bimg.Resize(src.buf, opts)
	if err != nil {
		logger.Error("Error converting image to png", zap.Error(err))
		return nil, err
	}

	return buf, nil
}
