package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imageDecodedMsg brings a finished decode back onto the event loop. The
// decode itself runs in a tea.Cmd goroutine and never touches the document.
type imageDecodedMsg struct {
	bitmap image.Image
	source string
	err    error
}

// loadImage reads and decodes an image file. Files that are not images are
// reported as ErrInvalidInput.
func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", path, ErrInvalidInput)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") && !isTIFF(data) {
		return nil, fmt.Errorf("%s is %s, not an image: %w", path, contentType, ErrInvalidInput)
	}
	bitmap, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%s: %v: %w", path, err, ErrInvalidInput)
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return bitmap, nil
}

// http.DetectContentType does not sniff TIFF.
func isTIFF(data []byte) bool {
	return len(data) >= 4 && (string(data[:4]) == "II*\x00" || string(data[:4]) == "MM\x00*")
}

func decodeImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		bitmap, err := loadImage(path)
		return imageDecodedMsg{bitmap: bitmap, source: path, err: err}
	}
}
