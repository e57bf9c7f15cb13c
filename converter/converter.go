package converter

import (
	"fmt"
	"go.uber.org/zap"
	img "imagetools/converter/image"
	"imagetools/converter/image/native"
	"imagetools/converter/image/vips"
)

const (
	BackendVips   = "vips"
	BackendNative = "native"
)

// New returns the codec for backend. vips needs libvips at runtime; native is pure Go apart from the webp encoder.
func New(backend string, logger *zap.Logger) (img.Codec, error) {
	switch backend {
	case BackendVips:
		return vips.MustCodec(logger), nil
	case BackendNative:
		return native.MustCodec(logger), nil
	}

	return nil, fmt.Errorf("unknown codec backend: %s", backend)
}
