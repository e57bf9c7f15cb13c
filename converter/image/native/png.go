package native

import (
	"bytes"
	"context"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"image/png"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

type Png struct {
	logger *zap.Logger
}

func mustPng(logger *zap.Logger) *Png {
	return &Png{logger: logger}
}

// Encode is always lossless; a quality below 100 only trades CPU for a smaller deflate stream.
func (w *Png) Encode(ctx context.Context, i img.Image, quality int) ([]byte, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug("Converting image to png")

	src, err := unwrap(i)
	if err != nil {
		return nil, err
	}

	level := png.DefaultCompression
	if quality > 0 && quality < 100 {
		level = png.BestCompression
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.PNG, imaging.PNGCompressionLevel(level)); err != nil {
		logger.Error(err.Error())
		return nil, err
	}

	return buf.Bytes(), nil
}
