package image

import (
	"context"
	"errors"
)

var ErrForeignImage = errors.New("image was not decoded by this codec")

// Image is a decoded working image. Only the Codec that produced it can resize or encode it.
type Image interface {
	Width() int
	Height() int
}

type Encoder interface {
	Encode(ctx context.Context, img Image, quality int) ([]byte, error)
}

type Codec interface {
	Decode(ctx context.Context, buf []byte) (Image, error)
	Resize(ctx context.Context, img Image, box Box) (Image, error)
	Encoder(t Type) Encoder
}
