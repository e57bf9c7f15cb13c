package model

import (
	"fmt"
	"math"
	"strings"
)

const bytesPerMegabyte = 1024 * 1024

type CompressionKind string

const (
	CompressionPercentage CompressionKind = "percentage"
	CompressionSize       CompressionKind = "size"
)

// CompressionSpec is sent as {"type": "percentage"|"size", "value": n}. For size the value is in megabytes.
type CompressionSpec struct {
	Kind  CompressionKind `json:"type" validate:"oneof=percentage size"`
	Value float64         `json:"value"`
}

// Quality is the percentage value rounded and clamped to [1,100].
func (c CompressionSpec) Quality() int {
	return int(math.Round(min(100, max(1, c.Value))))
}

// TargetBytes saturates at math.MaxInt64 for sizes too large to represent.
func (c CompressionSpec) TargetBytes() int64 {
	b := c.Value * bytesPerMegabyte
	if b >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(b)
}

type ConversionOptions struct {
	Format      string           `json:"format"`
	Width       int              `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height      int              `json:"height,omitempty" validate:"omitempty,gt=0"`
	Compression *CompressionSpec `json:"compression,omitempty"`
}

func (o ConversionOptions) HasResize() bool {
	return o.Width != 0 || o.Height != 0
}

type ConversionRequest struct {
	Image     []byte
	MediaType string
	Filename  string
	Options   ConversionOptions
}

type ConversionResult struct {
	MediaType string
	Filename  string
	Body      []byte
	Cached    bool
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// DownloadFilename builds "<stem>[-<width>-<height>].<ext>". The dimension suffix is added only when both are set.
func DownloadFilename(original, ext string, width, height int) string {
	stem, originalExt := original, ""
	if i := strings.LastIndex(original, "."); i >= 0 {
		stem, originalExt = original[:i], original[i+1:]
	}

	if ext == "" {
		ext = originalExt
	}

	suffix := ""
	if width > 0 && height > 0 {
		suffix = fmt.Sprintf("-%d-%d", width, height)
	}

	return fmt.Sprintf("%s%s.%s", stem, suffix, ext)
}
