package vips

import (
	"context"
	"fmt"
	"github.com/h2non/bimg"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

type Jpeg struct {
	logger *zap.Logger
}

func MustJpeg(logger *zap.Logger) *Jpeg {
	return &Jpeg{logger: logger}
}

func (w *Jpeg) Encode(ctx context.Context, i img.Image, quality int) ([]byte, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug(fmt.Sprintf("Converting image to jpeg with quality: %d", quality))

	src, ok := i.(*Image)
	if !ok {
		return nil, img.ErrForeignImage
	}

	buf, err := bimg.Resize(src.buf, bimg.Options{Type: bimg.JPEG, Quality: quality, Background: background})
	if err != nil {
		logger.Error("Error converting image to jpeg", zap.Error(err))
		return nil, err
	}

	return buf, nil
}
