// Package qrcode renders page links as PNG QR codes embedded in data URLs.
package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the image width and height in pixels.
const DefaultSize = 256

// Generator produces QR code data URLs.
type Generator struct {
	size  int
	level goqrcode.RecoveryLevel
}

// NewGenerator creates a generator. A non-positive size uses DefaultSize.
func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size, level: goqrcode.Medium}
}

// PNG encodes content as a QR code image.
func (g *Generator) PNG(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	png, err := goqrcode.Encode(content, g.level, g.size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}

// DataURL encodes content as a base64 PNG data URL suitable for an img src.
func (g *Generator) DataURL(content string) (string, error) {
	png, err := g.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
