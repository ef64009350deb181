package indexer

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// imageSize reads the pixel dimensions from the image header at path.
// Files that do not decode report 0x0.
func imageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		slog.Debug("image header not decodable", "file", path, "error", err)
		return 0, 0
	}
	slog.Debug("image header", "file", path, "format", format)
	return cfg.Width, cfg.Height
}
