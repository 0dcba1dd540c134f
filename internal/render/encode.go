package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// Compression names a PNG compression level.
type Compression string

const (
	CompressionDefault Compression = "default"
	CompressionSpeed   Compression = "speed"
	CompressionBest    Compression = "best"
	CompressionNone    Compression = "none"
)

// ParseCompression accepts the names above; empty means default.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CompressionDefault, nil
	case CompressionDefault, CompressionSpeed, CompressionBest, CompressionNone:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

func (c Compression) level() png.CompressionLevel {
	switch c {
	case CompressionSpeed:
		return png.BestSpeed
	case CompressionBest:
		return png.BestCompression
	case CompressionNone:
		return png.NoCompression
	default:
		return png.DefaultCompression
	}
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image, c Compression) error {
	enc := png.Encoder{CompressionLevel: c.level()}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Saved describes a file written by Save.
type Saved struct {
	Path     string
	Bytes    int64
	Checksum string // hex SHA-256 of the file contents
}

// Save encodes img to path, creating parent directories as needed.
func Save(path string, img image.Image, c Compression) (Saved, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, c); err != nil {
		return Saved{}, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Saved{}, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return Saved{}, fmt.Errorf("write %s: %w", path, err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return Saved{
		Path:     path,
		Bytes:    int64(buf.Len()),
		Checksum: hex.EncodeToString(sum[:]),
	}, nil
}

// Thumbnail scales img down so its longer side is maxSide, keeping the aspect
// ratio. Images already within bounds are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}

	tw, th := maxSide, maxSide
	if w >= h {
		th = max(1, h*maxSide/w)
	} else {
		tw = max(1, w*maxSide/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ThumbnailPath derives the thumbnail file name next to path.
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".thumb" + ext
}
