package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// renderPNG rasterizes output.pdf with pdftoppm and rescales the result to
// the requested width.
func (p *Pipeline) renderPNG(ctx context.Context, dir string, width int) ([]byte, error) {
	if err := p.runTool(ctx, dir, toolPDF2PNG,
		"-png", "-singlefile", "-r", "150", "output.pdf", "preview"); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "preview.png"))
	if err != nil {
		return nil, fmt.Errorf("render: read png: %w", err)
	}
	if width <= 0 {
		return data, nil
	}
	return rescalePNG(data, width)
}

func rescalePNG(data []byte, width int) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("render: decode png: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Dx() == width || bounds.Dx() == 0 {
		return data, nil
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
