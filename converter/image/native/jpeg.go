package native

import (
	"bytes"
	"context"
	"fmt"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

type Jpeg struct {
	logger *zap.Logger
}

func mustJpeg(logger *zap.Logger) *Jpeg {
	return &Jpeg{logger: logger}
}

func (w *Jpeg) Encode(ctx context.Context, i img.Image, quality int) ([]byte, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug(fmt.Sprintf("Converting image to jpeg with quality: %d", quality))

	src, err := unwrap(i)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		logger.Error(err.Error())
		return nil, err
	}

	return buf.Bytes(), nil
}
