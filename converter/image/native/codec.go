package native

import (
	"bytes"
	"context"
	"fmt"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"image"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

type Image struct {
	image.Image
}

func (i *Image) Width() int {
	return i.Bounds().Dx()
}

func (i *Image) Height() int {
	return i.Bounds().Dy()
}

type Codec struct {
	*img.Strategy

	logger *zap.Logger
}

func MustCodec(logger *zap.Logger) *Codec {
	return &Codec{
		Strategy: img.NewStrategy(map[img.Type]img.Encoder{
			img.WEBP: mustWebp(logger),
			img.JPEG: mustJpeg(logger),
			img.PNG:  mustPng(logger),
		}),
		logger: logger,
	}
}

func (c *Codec) Encoder(t img.Type) img.Encoder {
	return c.Apply(t)
}

func (c *Codec) Decode(ctx context.Context, buf []byte) (img.Image, error) {
	logger := log.LoggerWithTrace(ctx, c.logger)

	decoded, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		logger.Error("Error decoding image", zap.Error(err))
		return nil, fmt.Errorf("decode: %w", err)
	}
	if decoded.Bounds().Dx() == 0 || decoded.Bounds().Dy() == 0 {
		return nil, fmt.Errorf("decoded image is empty")
	}

	return &Image{decoded}, nil
}

func (c *Codec) Resize(ctx context.Context, i img.Image, box img.Box) (img.Image, error) {
	logger := log.LoggerWithTrace(ctx, c.logger)

	src, ok := i.(*Image)
	if !ok {
		return nil, img.ErrForeignImage
	}

	w, h := img.ContainSize(src.Width(), src.Height(), box)
	logger.Debug(fmt.Sprintf("Resizing image %dx%d to %dx%d", src.Width(), src.Height(), w, h))

	resized := imaging.Resize(src.Image, w, h, imaging.Lanczos)
	if !box.Padded() {
		return &Image{resized}, nil
	}

	canvas := imaging.New(box.Width, box.Height, img.Background)

	return &Image{imaging.PasteCenter(canvas, resized)}, nil
}

func unwrap(i img.Image) (image.Image, error) {
	src, ok := i.(*Image)
	if !ok {
		return nil, img.ErrForeignImage
	}
	return src.Image, nil
}
