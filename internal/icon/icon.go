// Package icon renders the status-area icon images.
//
// The app icon is a rounded square with a bold "K", drawn at twice the tray size and
// scaled down so the edges stay smooth on HiDPI trays. Windows trays want ICO data,
// so PNG output is wrapped in a single-image ICO container there.
package icon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Size is the edge length of generated tray icons.
const Size = 48

const (
	scale  = 2
	radius = 10 * scale
)

var (
	brand = color.RGBA{94, 76, 196, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// Default renders the app icon as PNG.
func Default() ([]byte, error) {
	big := image.NewRGBA(image.Rect(0, 0, Size*scale, Size*scale))
	drawRoundedSquare(big, brand)
	if err := drawGlyph(big, "K"); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), big, big.Bounds(), draw.Over, nil)
	return encode(dst)
}

// Blank renders a fully transparent PNG of tray size.
func Blank() ([]byte, error) {
	return encode(image.NewRGBA(image.Rect(0, 0, Size, Size)))
}

// ForOS converts PNG data into the format the status area of goos expects.
func ForOS(goos string, pngData []byte) ([]byte, error) {
	if goos != "windows" {
		return pngData, nil
	}
	return ICO(pngData)
}

// ICO wraps PNG data in a single-entry ICO container.
func ICO(pngData []byte) ([]byte, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	if cfg.Width > 256 || cfg.Height > 256 {
		return nil, fmt.Errorf("icon too large for ico: %dx%d", cfg.Width, cfg.Height)
	}

	var buf bytes.Buffer
	header := struct {
		Reserved uint16
		Type     uint16
		Count    uint16
	}{0, 1, 1}
	entry := struct {
		Width, Height  uint8
		Colors, Zero   uint8
		Planes, BitCnt uint16
		Size, Offset   uint32
	}{
		Width:  uint8(cfg.Width % 256),
		Height: uint8(cfg.Height % 256),
		Planes: 1,
		BitCnt: 32,
		Size:   uint32(len(pngData)),
		Offset: 6 + 16,
	}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
		return nil, err
	}
	buf.Write(pngData)
	return buf.Bytes(), nil
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawRoundedSquare(img *image.RGBA, fill color.RGBA) {
	n := img.Bounds().Dx()
	for py := 0; py < n; py++ {
		for px := 0; px < n; px++ {
			if insideRounded(px, py, n) {
				img.Set(px, py, fill)
			}
		}
	}
}

// insideRounded reports whether (x, y) lies inside an n×n square with corner radius.
func insideRounded(x, y, n int) bool {
	cx, cy := x, y
	switch {
	case x < radius:
		cx = radius
	case x >= n-radius:
		cx = n - radius - 1
	}
	switch {
	case y < radius:
		cy = radius
	case y >= n-radius:
		cy = n - radius - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

func drawGlyph(img *image.RGBA, text string) error {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size: float64(Size*scale) * 0.7,
		DPI:  72,
	})
	if err != nil {
		return fmt.Errorf("font face: %w", err)
	}
	defer face.Close() //nolint:errcheck // nothing to recover

	n := img.Bounds().Dx()
	bounds, advance := font.BoundString(face, text)
	visualCenter := (bounds.Max.Y + bounds.Min.Y) / 2
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(white),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(n/2) - advance/2,
			Y: fixed.I(n/2) - visualCenter,
		},
	}
	d.DrawString(text)
	return nil
}
