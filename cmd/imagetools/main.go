package main

import (
	"context"
	"flag"
	"fmt"
	"go.uber.org/zap"
	"imagetools/api/model"
	"imagetools/client"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"
)

func main() {
	var (
		api         = flag.String("api", "http://localhost:3355/api", "API base URL")
		mode        = flag.String("mode", string(client.ModeConvert), "convert, resize or compress")
		format      = flag.String("format", "png", "output format: png, jpg or webp")
		scale       = flag.Float64("scale", 0, "resize to this percentage of the source")
		width       = flag.Int("width", 0, "target width, height follows the aspect ratio")
		height      = flag.Int("height", 0, "target height, width follows the aspect ratio")
		compression = flag.String("compression", string(model.CompressionPercentage), "percentage or size")
		value       = flag.Float64("value", 80, "quality percentage or target size in MB")
		out         = flag.String("out", ".", "output directory")
		timeout     = flag.Duration("timeout", 2*time.Minute, "request timeout")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <image>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, logger, flag.Arg(0), *api, func(f *client.Form) error {
		if err := f.SetMode(client.Mode(*mode)); err != nil {
			return err
		}
		f.SetFormat(*format)

		switch {
		case *scale > 0:
			if err := f.SetScale(*scale); err != nil {
				return err
			}
		case *width > 0:
			f.SetWidth(*width)
		case *height > 0:
			f.SetHeight(*height)
		}

		return f.SetCompression(model.CompressionKind(*compression), *value)
	}, *out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, path, api string, configure func(*client.Form) error, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	form := client.NewForm(api, logger)
	if err = form.SelectFile(filepath.Base(path), mediaType(path, data), data); err != nil {
		return err
	}
	if err = configure(form); err != nil {
		return err
	}

	download, err := form.Submit(ctx)
	if err != nil {
		return err
	}

	dst := filepath.Join(out, download.Filename)
	if err = os.WriteFile(dst, download.Body, 0o644); err != nil {
		return err
	}

	fmt.Printf("%s (%s, %d bytes)\n", dst, download.MediaType, len(download.Body))

	return nil
}

// mediaType prefers the extension, the way a browser labels a picked file, and falls back to sniffing.
func mediaType(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
