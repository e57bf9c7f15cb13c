package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"github.com/goccy/go-json"
	"imagetools/api/model"
)

const (
	BackendNone      = "none"
	BackendDragonfly = "dragonfly"
	BackendS3        = "s3"
)

// Cache stores converted image bytes. A miss is reported as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, string, []byte) error {
	return nil
}

// Namespace identifies the encoder settings a cached result was produced with.
func Namespace(backend string, jpegQuality, webpQuality int) string {
	return fmt.Sprintf("%s:j%d:w%d", backend, jpegQuality, webpQuality)
}

// Key identifies a conversion by everything that determines its output. namespace comes from Namespace.
func Key(namespace string, req model.ConversionRequest) (string, error) {
	opts, err := json.Marshal(req.Options)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}

	hash := sha256.New()
	hash.Write([]byte(namespace))
	hash.Write([]byte{0})
	hash.Write([]byte(req.MediaType))
	hash.Write([]byte{0})
	hash.Write(opts)
	hash.Write([]byte{0})
	hash.Write(req.Image)

	return "img_convert:" + hex.EncodeToString(hash.Sum(nil)), nil
}
