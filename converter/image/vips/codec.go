package vips

import (
	"context"
	"errors"
	"fmt"
	"github.com/h2non/bimg"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/shared/log"
)

var background = bimg.Color{R: img.Background.R, G: img.Background.G, B: img.Background.B}

type Image struct {
	buf  []byte
	size bimg.ImageSize
}

func (i *Image) Width() int {
	return i.size.Width
}

func (i *Image) Height() int {
	return i.size.Height
}

func (i *Image) Buffer() []byte {
	return i.buf
}

type Codec struct {
	*img.Strategy

	logger *zap.Logger
}

func MustCodec(logger *zap.Logger) *Codec {
	return &Codec{
		Strategy: img.NewStrategy(map[img.Type]img.Encoder{
			img.WEBP: MustWebp(logger),
			img.JPEG: MustJpeg(logger),
			img.PNG:  MustPng(logger),
		}),
		logger: logger,
	}
}

func (c *Codec) Encoder(t img.Type) img.Encoder {
	return c.Apply(t)
}

func (c *Codec) Decode(ctx context.Context, buf []byte) (img.Image, error) {
	logger := log.LoggerWithTrace(ctx, c.logger)

	if bimg.DetermineImageType(buf) == bimg.UNKNOWN {
		return nil, errors.New("unsupported image type")
	}

	size, err := bimg.NewImage(buf).Size()
	if err != nil {
		logger.Error("Error reading image size", zap.Error(err))
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &Image{buf: buf, size: size}, nil
}

// Resize keeps the working image lossless by storing it as PNG.
func (c *Codec) Resize(ctx context.Context, i img.Image, box img.Box) (img.Image, error) {
	logger := log.LoggerWithTrace(ctx, c.logger)

	src, ok := i.(*Image)
	if !ok {
		return nil, img.ErrForeignImage
	}

	opts := bimg.Options{
		Width:   box.Width,
		Height:  box.Height,
		Enlarge: true,
		Type:    bimg.PNG,
	}
	if box.Padded() {
		opts.Embed = true
		opts.Extend = bimg.ExtendBackground
		opts.Background = background
	}

	logger.Debug(fmt.Sprintf("Resizing image %dx%d into %dx%d", src.Width(), src.Height(), box.Width, box.Height))

	buf, err := bimg.Resize(src.buf, opts)
	if err != nil {
		logger.Error("Error resizing image", zap.Error(err))
		return nil, err
	}

	size, err := bimg.NewImage(buf).Size()
	if err != nil {
		return nil, err
	}

	return &Image{buf: buf, size: size}, nil
}
