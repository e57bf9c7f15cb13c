package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"imagetools/api/model"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// Download is a converted image ready to be saved.
type Download struct {
	Filename  string
	MediaType string
	Body      []byte
}

// Submit uploads the selected file with the current options. On failure the form status is set to error and
// the message is the server's error text when it sent one.
func (f *Form) Submit(ctx context.Context) (*Download, error) {
	if f.file == nil {
		f.message = "Please select a file first"
		return nil, ErrNoFile
	}

	f.status = StatusIdle
	f.message = ""

	download, err := f.submit(ctx)
	if err != nil {
		f.logger.Error("Conversion failed", zap.Error(err))
		f.status = StatusError
		f.message = err.Error()
		return nil, err
	}

	f.logger.Info("Image converted",
		zap.String("source_type", f.file.MediaType),
		zap.String("target_format", f.options.Format),
		zap.Bool("has_resize", f.options.Width > 0 && f.options.Height > 0),
	)
	f.status = StatusSuccess

	return download, nil
}

func (f *Form) submit(ctx context.Context) (*Download, error) {
	body, contentType, err := f.multipartBody()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, data)
	}

	return &Download{
		Filename:  f.DownloadName(),
		MediaType: resp.Header.Get("Content-Type"),
		Body:      data,
	}, nil
}

func (f *Form) multipartBody() (io.Reader, string, error) {
	opts, err := json.Marshal(f.Options())
	if err != nil {
		return nil, "", fmt.Errorf("marshal options: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(f.file.Name)))
	header.Set("Content-Type", f.file.MediaType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err = part.Write(f.file.Data); err != nil {
		return nil, "", err
	}
	if err = w.WriteField("options", string(opts)); err != nil {
		return nil, "", err
	}
	if err = w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

func responseError(status int, body []byte) error {
	var resp model.ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error != "" {
		if resp.Details != "" {
			return fmt.Errorf("%s: %s", resp.Error, resp.Details)
		}
		return errors.New(resp.Error)
	}

	return fmt.Errorf("HTTP error! status: %d", status)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
