package client

import (
	"bytes"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"image"
	"imagetools/api/model"
	"math"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type Mode string

const (
	ModeConvert  Mode = "convert"
	ModeResize   Mode = "resize"
	ModeCompress Mode = "compress"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const (
	defaultFormat           = "png"
	defaultCompressionValue = 80
	defaultTimeout          = 2 * time.Minute

	minScale = 1
	maxScale = 9999
)

var (
	ErrInvalidFile      = errors.New("please select a valid image file")
	ErrNoFile           = errors.New("please select a file first")
	ErrUnknownMode      = errors.New("unknown mode")
	ErrScaleRange       = fmt.Errorf("scale must be between %d and %d", minScale, maxScale)
	ErrCompressionRange = errors.New("compression value out of range")
)

// File is the selected upload. Width and Height are zero when the dimensions could not be probed.
type File struct {
	Name      string
	MediaType string
	Data      []byte
	Width     int
	Height    int
}

func (f *File) hasDimensions() bool {
	return f.Width > 0 && f.Height > 0
}

// Form holds the state behind the conversion form and submits it to the API.
type Form struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger

	mode    Mode
	file    *File
	options model.ConversionOptions
	scale   float64

	compressionKind  model.CompressionKind
	compressionValue float64

	status  Status
	message string
}

// NewForm targets the API rooted at baseURL, e.g. "http://localhost:3355/api".
func NewForm(baseURL string, logger *zap.Logger) *Form {
	return &Form{
		endpoint: strings.TrimRight(baseURL, "/") + "/convert",
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger,

		mode:    ModeConvert,
		options: model.ConversionOptions{Format: defaultFormat},
		scale:   100,

		compressionKind:  model.CompressionPercentage,
		compressionValue: defaultCompressionValue,

		status: StatusIdle,
	}
}

func (f *Form) Mode() Mode { return f.mode }
func (f *Form) File() *File { return f.file }
func (f *Form) Scale() float64 { return f.scale }
func (f *Form) Status() Status { return f.status }
func (f *Form) Message() string { return f.message }
func (f *Form) Width() int { return f.options.Width }
func (f *Form) Height() int { return f.options.Height }
func (f *Form) Format() string { return f.options.Format }
func (f *Form) CompressionValue() float64 { return f.compressionValue }

func (f *Form) SetMode(m Mode) error {
	switch m {
	case ModeConvert, ModeResize, ModeCompress:
		f.mode = m
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownMode, m)
}

func (f *Form) SetFormat(format string) {
	f.options.Format = format
}

// SelectFile replaces the current file. A media type outside image/* clears the selection.
func (f *Form) SelectFile(name, mediaType string, data []byte) error {
	f.message = ""

	if !strings.HasPrefix(mediaType, "image/") {
		f.file = nil
		f.message = "Please select a valid image file"
		return ErrInvalidFile
	}

	file := &File{Name: name, MediaType: mediaType, Data: data}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		f.logger.Debug("Could not probe image dimensions", zap.String("name", name), zap.Error(err))
	} else {
		file.Width, file.Height = cfg.Width, cfg.Height
	}

	f.file = file

	return nil
}

// SetScale sets the scale in percent and derives both dimensions from the source size.
func (f *Form) SetScale(pct float64) error {
	if pct < minScale || pct > maxScale {
		return ErrScaleRange
	}

	f.scale = pct
	if f.file != nil && f.file.hasDimensions() {
		f.options.Width = int(math.Round(float64(f.file.Width) * pct / 100))
		f.options.Height = int(math.Round(float64(f.file.Height) * pct / 100))
	}

	return nil
}

// SetWidth keeps the source aspect ratio. Without known source dimensions it does nothing.
func (f *Form) SetWidth(w int) {
	if f.file == nil || !f.file.hasDimensions() {
		return
	}

	aspect := float64(f.file.Height) / float64(f.file.Width)
	f.options.Width = w
	f.options.Height = int(math.Round(float64(w) * aspect))
	f.scale = float64(w) / float64(f.file.Width) * 100
}

// SetHeight keeps the source aspect ratio. Without known source dimensions it does nothing.
func (f *Form) SetHeight(h int) {
	if f.file == nil || !f.file.hasDimensions() {
		return
	}

	aspect := float64(f.file.Width) / float64(f.file.Height)
	f.options.Height = h
	f.options.Width = int(math.Round(float64(h) * aspect))
	f.scale = float64(h) / float64(f.file.Height) * 100
}

// SetCompression always switches the kind. The value is kept only when it is valid for that kind:
// 1 to 100 for a percentage, anything positive for a size in megabytes.
func (f *Form) SetCompression(kind model.CompressionKind, value float64) error {
	f.compressionKind = kind

	switch kind {
	case model.CompressionPercentage:
		if value < 1 || value > 100 {
			return ErrCompressionRange
		}
	case model.CompressionSize:
		if value <= 0 {
			return ErrCompressionRange
		}
	default:
		return fmt.Errorf("unknown compression type: %s", kind)
	}

	f.compressionValue = value

	return nil
}

// Options is the payload sent with the upload. Compression is only included in compress mode.
func (f *Form) Options() model.ConversionOptions {
	opts := model.ConversionOptions{
		Format: f.options.Format,
		Width:  f.options.Width,
		Height: f.options.Height,
	}

	if f.mode == ModeCompress {
		opts.Compression = &model.CompressionSpec{Kind: f.compressionKind, Value: f.compressionValue}
	}

	return opts
}

// DownloadName is the name the converted file is saved under.
func (f *Form) DownloadName() string {
	if f.file == nil {
		return ""
	}
	return model.DownloadFilename(f.file.Name, f.options.Format, f.options.Width, f.options.Height)
}
