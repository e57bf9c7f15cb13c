package vips

import (
	"context"
	"fmt"
	"github.com/h2non/bimg"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

type Webp struct {
	logger *zap.Logger
}

func MustWebp(logger *zap.Logger) *Webp {
	return &Webp{logger: logger}
}

func (w *Webp) Encode(ctx context.Context, i img.Image, quality int) ([]byte, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug(fmt.Sprintf("Converting image to webp with quality: %d", quality))

	src, ok := i.(*Image)
	if !ok {
		return nil, img.ErrForeignImage
	}

	buf, err := bimg.Resize(src.buf, bimg.Options{Type: bimg.WEBP, Quality: quality})
	if err != nil {
		logger.Error("Error converting image to webp", zap.Error(err))
		return nil, err
	}

	return buf, nil
}
