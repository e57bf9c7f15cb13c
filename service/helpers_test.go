package service

import (
	"bytes"
	"context"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"image"
	"image/color"
	"imagetools/api/model"
	"imagetools/cache"
	"imagetools/config"
	img "imagetools/converter/image"
	"imagetools/converter/image/native"
	"imagetools/stats"
	"math/rand"
	"sync"
	"testing"
)

var testConversion = config.Conversion{
	MaxUploadSizeMB:   50,
	OutputJpegQuality: 90,
	OutputWebpQuality: 90,
}

func solid(w, h int, c color.Color) image.Image {
	return imaging.New(w, h, c)
}

// noisy produces an image that compresses badly, so JPEG sizes track quality.
func noisy(w, h int) image.Image {
	rnd := rand.New(rand.NewSource(42))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range dst.Pix {
		dst.Pix[i] = uint8(rnd.Intn(256))
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}

func encode(t *testing.T, src image.Image, format imaging.Format) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, src, format))
	return buf.Bytes()
}

func decodeBytes(t *testing.T, data []byte) image.Image {
	t.Helper()

	decoded, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return decoded
}

type spyCodec struct {
	img.Codec

	mu      sync.Mutex
	decodes int
}

func (s *spyCodec) Decode(ctx context.Context, buf []byte) (img.Image, error) {
	s.mu.Lock()
	s.decodes++
	s.mu.Unlock()
	return s.Codec.Decode(ctx, buf)
}

func (s *spyCodec) Decodes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decodes
}

type memoryCache struct {
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, data []byte) error {
	m.data[key] = data
	return nil
}

type memoryRecorder struct {
	events []stats.Event
}

func (m *memoryRecorder) Record(_ context.Context, event stats.Event) error {
	m.events = append(m.events, event)
	return nil
}

func newTestService(t *testing.T) (*ImageService, *spyCodec) {
	t.Helper()

	codec := &spyCodec{Codec: native.MustCodec(zap.NewNop())}
	return NewImageService(codec, cache.Noop{}, stats.Noop{}, testConversion, zap.NewNop()), codec
}

func request(data []byte, mediaType string, opts model.ConversionOptions) model.ConversionRequest {
	return model.ConversionRequest{Image: data, MediaType: mediaType, Filename: "photo.png", Options: opts}
}
