// Package images owns the image pipeline: upload validation, the
// normalize/resize/re-encode step, and the object-store-first storage
// fallback that keeps an outfit's ImageRef consistent with wherever its
// bytes actually landed.
package images

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// webp uploads are decodable; they re-encode as JPEG below.
	_ "golang.org/x/image/webp"
)

const (
	// MaxFileSize caps uploads at 5 MiB.
	MaxFileSize = 5 << 20
	maxWidth    = 600
	jpegQuality = 75
)

var allowedExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var (
	ErrExtNotAllowed = errors.New("images: file type not allowed")
	ErrTooLarge      = errors.New("images: file too large")
	ErrNotAnImage    = errors.New("images: not a decodable image")
)

// AllowedExtensions returns the allow-list for error messages.
func AllowedExtensions() string {
	return strings.Join(allowedExts, ", ")
}

func extAllowed(ext string) bool {
	for _, e := range allowedExts {
		if e == ext {
			return true
		}
	}
	return false
}

// Normalize validates data as a real image and bounds its storage size:
// images wider than 600px are downscaled preserving aspect ratio, then
// re-encoded as JPEG at quality 75 for jpg/webp, native format for png/gif.
// It returns the encoded bytes, the extension they should be stored under,
// and their content type.
func Normalize(data []byte, ext string) ([]byte, string, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", ErrNotAnImage
	}

	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var (
		format      imaging.Format
		opts        []imaging.EncodeOption
		outExt      string
		contentType string
	)
	switch ext {
	case ".png":
		format, outExt, contentType = imaging.PNG, ".png", "image/png"
	case ".gif":
		format, outExt, contentType = imaging.GIF, ".gif", "image/gif"
	default:
		// .jpg, .jpeg, and .webp (no webp encoder in Go) all land as JPEG.
		format, outExt, contentType = imaging.JPEG, ".jpg", "image/jpeg"
		opts = append(opts, imaging.JPEGQuality(jpegQuality))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, opts...); err != nil {
		return nil, "", "", err
	}
	return buf.Bytes(), outExt, contentType, nil
}

// ReadAndNormalize runs the full upload pipeline on a multipart file:
// extension allow-list, size cap, decode validation, normalization.
func ReadAndNormalize(fh *multipart.FileHeader) ([]byte, string, string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extAllowed(ext) {
		return nil, "", "", ErrExtNotAllowed
	}
	if fh.Size > MaxFileSize {
		return nil, "", "", ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, "", "", err
	}
	if len(data) > MaxFileSize {
		return nil, "", "", ErrTooLarge
	}

	return Normalize(data, ext)
}
