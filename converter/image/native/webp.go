package native

import (
	"bytes"
	"context"
	"fmt"
	"github.com/chai2010/webp"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

type Webp struct {
	logger *zap.Logger
}

func mustWebp(logger *zap.Logger) *Webp {
	return &Webp{logger: logger}
}

func (w *Webp) Encode(ctx context.Context, i img.Image, quality int) ([]byte, error) {
	logger := log.LoggerWithTrace(ctx, w.logger)
	logger.Debug(fmt.Sprintf("Converting image to webp with quality: %d", quality))

	src, err := unwrap(i)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Lossless: quality == 100, Quality: float32(quality)}); err != nil {
		logger.Error(err.Error())
		return nil, err
	}

	return buf.Bytes(), nil
}
