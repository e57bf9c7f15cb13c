package rest

import (
	"github.com/gofiber/fiber/v2"
	"path/filepath"
)

// NewStaticController serves the built single-page app. Unknown paths get index.html so client-side routing works.
// It must be registered after every API route.
func NewStaticController(app *fiber.App, dir string) {
	index := filepath.Join(dir, "index.html")

	app.Static("/", dir)
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}
