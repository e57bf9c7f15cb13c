package service

import (
	"context"
	"fmt"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"imagetools/api/model"
	"imagetools/cache"
	"imagetools/config"
	img "imagetools/converter/image"
	"imagetools/shared/log"
	"imagetools/stats"
	"strings"
	"time"
)

const recordTimeout = 2 * time.Second

// unsupportedInputs maps rejected declared media types to the name reported back to the client.
var unsupportedInputs = map[string]string{
	"image/x-icon": "ICO",
	"image/tiff":   "TIFF",
	"image/heic":   "HEIC",
}

type outputFormat struct {
	t       img.Type
	quality int
}

type ImageService struct {
	codec    img.Codec
	cache    cache.Cache
	recorder stats.Recorder
	validate *validator.Validate
	tracer   trace.Tracer

	maxUploadBytes int
	outputs        map[string]outputFormat
	cacheNamespace string

	logger *zap.Logger
}

func NewImageService(codec img.Codec, c cache.Cache, recorder stats.Recorder, conf config.Conversion, logger *zap.Logger) *ImageService {
	if c == nil {
		c = cache.Noop{}
	}
	if recorder == nil {
		recorder = stats.Noop{}
	}

	return &ImageService{
		codec:    codec,
		cache:    c,
		recorder: recorder,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer("imagetools/service"),

		maxUploadBytes: conf.MaxUploadBytes(),
		outputs: map[string]outputFormat{
			"png":  {t: img.PNG},
			"jpg":  {t: img.JPEG, quality: conf.OutputJpegQuality},
			"webp": {t: img.WEBP, quality: conf.OutputWebpQuality},
		},
		cacheNamespace: cache.Namespace(conf.CodecBackend, conf.OutputJpegQuality, conf.OutputWebpQuality),

		logger: logger,
	}
}

// Convert runs the conversion pipeline: input checks, optional compression, optional resize, then the
// mandatory re-encode. Nothing is returned on failure; the result is all or nothing.
func (i *ImageService) Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error) {
	start := time.Now()

	ctx, span := i.tracer.Start(ctx, "ImageService.Convert", trace.WithAttributes(
		attribute.String("image.source_type", req.MediaType),
		attribute.String("image.target_format", req.Options.Format),
		attribute.Int("image.input_bytes", len(req.Image)),
	))
	defer span.End()

	result, err := i.convert(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	i.record(ctx, req, result, err, time.Since(start))

	return result, err
}

func (i *ImageService) convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error) {
	logger := log.LoggerWithTrace(ctx, i.logger)

	if req.Image == nil {
		return nil, ErrNoFile
	}
	if i.maxUploadBytes > 0 && len(req.Image) > i.maxUploadBytes {
		return nil, ErrFileTooLarge
	}

	if name, blocked := unsupportedInputs[strings.ToLower(req.MediaType)]; blocked {
		return nil, &UnsupportedInputError{Format: name}
	}

	output, ok := i.outputs[req.Options.Format]
	if !ok {
		return nil, ErrUnsupportedOutput
	}

	if err := i.validate.Struct(req.Options); err != nil {
		return nil, failed("options", err)
	}

	key, err := cache.Key(i.cacheNamespace, req)
	if err != nil {
		return nil, failed("cache", err)
	}

	if data, hit, err := i.cache.Get(ctx, key); err != nil {
		logger.Warn("Error reading conversion cache", zap.Error(err))
	} else if hit {
		logger.Debug("Conversion cache hit", zap.String("key", key))
		return i.result(req, data, true), nil
	}

	working, err := i.decode(ctx, req.Image)
	if err != nil {
		return nil, failed("decode", err)
	}

	if spec := req.Options.Compression; spec != nil {
		working, err = i.compress(ctx, working, req, *spec)
		if err != nil {
			return nil, failed("compress", err)
		}
	}

	if req.Options.HasResize() {
		working, err = i.resize(ctx, working, img.Box{Width: req.Options.Width, Height: req.Options.Height})
		if err != nil {
			return nil, failed("resize", err)
		}
	}

	data, err := i.encode(ctx, working, output)
	if err != nil {
		return nil, failed("format", err)
	}

	if err := i.cache.Set(ctx, key, data); err != nil {
		logger.Warn("Error writing conversion cache", zap.Error(err))
	}

	return i.result(req, data, false), nil
}

func (i *ImageService) result(req model.ConversionRequest, data []byte, cached bool) *model.ConversionResult {
	opts := req.Options

	return &model.ConversionResult{
		MediaType: "image/" + opts.Format,
		Filename:  model.DownloadFilename(req.Filename, opts.Format, opts.Width, opts.Height),
		Body:      data,
		Cached:    cached,
	}
}

func (i *ImageService) decode(ctx context.Context, buf []byte) (img.Image, error) {
	ctx, span := i.tracer.Start(ctx, "decode")
	defer span.End()

	return i.codec.Decode(ctx, buf)
}

func (i *ImageService) compress(ctx context.Context, src img.Image, req model.ConversionRequest, spec model.CompressionSpec) (img.Image, error) {
	ctx, span := i.tracer.Start(ctx, "compress", trace.WithAttributes(attribute.String("compression.type", string(spec.Kind))))
	defer span.End()
	logger := log.LoggerWithTrace(ctx, i.logger)

	var data []byte

	switch spec.Kind {
	case model.CompressionPercentage:
		t, ok := percentageType(req.Options.Format, req.MediaType)
		if !ok {
			logger.Debug("Skipping percentage compression for unlisted format",
				zap.String("format", req.Options.Format), zap.String("media_type", req.MediaType))
			return src, nil
		}

		encoder := i.codec.Encoder(t)
		if encoder == nil {
			return nil, fmt.Errorf("no encoder for %s", t)
		}

		encoded, err := encoder.Encode(ctx, src, spec.Quality())
		if err != nil {
			return nil, err
		}
		data = encoded

	case model.CompressionSize:
		search, err := SearchQuality(ctx, i.codec, src, spec.TargetBytes())
		if err != nil {
			return nil, err
		}

		logger.Debug(fmt.Sprintf("Compressed to %d bytes at quality %d after %d attempts", len(search.Data), search.Quality, search.Attempts),
			zap.Int64("target_bytes", spec.TargetBytes()))
		span.SetAttributes(attribute.Int("compression.quality", search.Quality), attribute.Int("compression.attempts", search.Attempts))
		data = search.Data

	default:
		return nil, fmt.Errorf("unknown compression type: %s", spec.Kind)
	}

	return i.codec.Decode(ctx, data)
}

func (i *ImageService) resize(ctx context.Context, src img.Image, box img.Box) (img.Image, error) {
	ctx, span := i.tracer.Start(ctx, "resize", trace.WithAttributes(
		attribute.Int("resize.width", box.Width),
		attribute.Int("resize.height", box.Height),
	))
	defer span.End()

	return i.codec.Resize(ctx, src, box)
}

func (i *ImageService) encode(ctx context.Context, src img.Image, output outputFormat) ([]byte, error) {
	ctx, span := i.tracer.Start(ctx, "encode", trace.WithAttributes(attribute.String("encode.type", output.t.String())))
	defer span.End()

	encoder := i.codec.Encoder(output.t)
	if encoder == nil {
		return nil, fmt.Errorf("no encoder for %s", output.t)
	}

	return encoder.Encode(ctx, src, output.quality)
}

func (i *ImageService) record(ctx context.Context, req model.ConversionRequest, result *model.ConversionResult, err error, took time.Duration) {
	event := stats.Event{
		SourceType:   strings.ToLower(req.MediaType),
		TargetFormat: req.Options.Format,
		HasResize:    req.Options.HasResize(),
		InputBytes:   len(req.Image),
		Duration:     took,
		Outcome:      stats.OutcomeConverted,
	}
	if req.Options.Compression != nil {
		event.CompressionKind = string(req.Options.Compression.Kind)
	}

	switch {
	case err != nil && IsRejection(err):
		event.Outcome = stats.OutcomeRejected
		event.Error = err.Error()
	case err != nil:
		event.Outcome = stats.OutcomeFailed
		event.Error = err.Error()
	case result.Cached:
		event.Outcome = stats.OutcomeCached
		event.OutputBytes = len(result.Body)
	default:
		event.OutputBytes = len(result.Body)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := i.recorder.Record(ctx, event); err != nil {
		log.LoggerWithTrace(ctx, i.logger).Warn("Error recording conversion event", zap.Error(err))
	}
}
