package rest

import (
	"context"
	"errors"
	"fmt"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"imagetools/api/model"
	"imagetools/config"
	"imagetools/service"
	"imagetools/shared/log"
	"io"
	"mime/multipart"
	"time"
)

const (
	formImage   = "image"
	formOptions = "options"

	headerCache = "X-Cache"
)

type Converter interface {
	Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error)
}

type ConversionController struct {
	service Converter
	timeout time.Duration
	logger  *zap.Logger
}

func NewConversionController(app *fiber.App, cfg *config.Config, service Converter, logger *zap.Logger) *ConversionController {
	i := &ConversionController{service: service, timeout: cfg.RequestTimeout, logger: logger}

	api := app.Group("/api")
	api.Post("/convert", i.Convert)
	api.Get("/health", i.Health)
	api.All("/*", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return i
}

// Convert image
//
//	@Summary		Convert, resize and compress an image
//	@Description	Accepts an uploaded image and a JSON options object. The image is optionally compressed, optionally resized to fit a box on a white background and always re-encoded to the requested format.
//	@Tags			image
//	@Accept			multipart/form-data
//	@Produce		image/png,image/jpg,image/webp
//	@Param			image	formData	file	true	"Image to convert"
//	@Param			options	formData	string	true	"Conversion options as JSON"
//	@Success		200		{file}		file	"Returns the converted image"
//	@Failure		400		{object}	model.ErrorResponse
//	@Failure		413		{object}	model.ErrorResponse
//	@Failure		415		{object}	model.ErrorResponse
//	@Failure		500		{object}	model.ErrorResponse
//	@Router			/api/convert [post]
func (i *ConversionController) Convert(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), i.timeout)
	defer cancel()
	logger := log.LoggerWithTrace(ctx, i.logger)

	file, err := c.FormFile(formImage)
	if err != nil {
		logger.Debug("Request has no image part", zap.Error(err))
		return i.fail(c, service.ErrNoFile)
	}

	req := model.ConversionRequest{
		MediaType: file.Header.Get(fiber.HeaderContentType),
		Filename:  file.Filename,
	}

	if err = json.Unmarshal([]byte(c.FormValue(formOptions)), &req.Options); err != nil {
		logger.Error("Error parsing options", zap.Error(err))
		return i.fail(c, fmt.Errorf("parse options: %w", err))
	}

	req.Image, err = readFile(file)
	if err != nil {
		logger.Error("Error reading upload", zap.Error(err))
		return i.fail(c, err)
	}

	logger.Debug(fmt.Sprintf("Converting %s (%s, %d bytes) with options: %+v", req.Filename, req.MediaType, len(req.Image), req.Options))

	result, err := i.service.Convert(ctx, req)
	if err != nil {
		return i.fail(c, err)
	}

	c.Attachment(result.Filename)
	c.Set(fiber.HeaderContentType, result.MediaType)
	if result.Cached {
		c.Set(headerCache, "HIT")
	} else {
		c.Set(headerCache, "MISS")
	}

	return c.Status(fiber.StatusOK).Send(result.Body)
}

// Health
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/api/health [get]
func (i *ConversionController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (i *ConversionController) fail(c *fiber.Ctx, err error) error {
	logger := log.LoggerWithTrace(c.UserContext(), i.logger)

	var unsupported *service.UnsupportedInputError

	switch {
	case errors.As(err, &unsupported):
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(model.ErrorResponse{Error: unsupported.Error()})
	case errors.Is(err, service.ErrNoFile):
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Error: "No file uploaded"})
	case errors.Is(err, service.ErrUnsupportedOutput):
		return c.Status(fiber.StatusBadRequest).JSON(model.ErrorResponse{Error: "Unsupported output format"})
	case errors.Is(err, service.ErrFileTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(model.ErrorResponse{Error: "File too large"})
	}

	logger.Error("Error converting image", zap.Error(err))

	return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
		Error:   "Image conversion failed",
		Details: err.Error(),
	})
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}
