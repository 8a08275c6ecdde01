package render

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// HalfBlock renders frames natively: each terminal cell carries two
// vertical pixels via foreground and background colors on the "▀" (upper
// half block) character. It is the fallback when chafa is not installed,
// and always emits truecolor output regardless of the configured color
// mode.
//
// Create instances with [NewHalfBlock].
type HalfBlock struct {
	cols int
	rows int
}

// NewHalfBlock creates a [HalfBlock] renderer targeting a character grid.
func NewHalfBlock(cols, rows int) *HalfBlock {
	return &HalfBlock{cols: cols, rows: rows}
}

// Render decodes the JPEG artifact, scales it to the cell grid, and writes
// half-block cells with CRLF line endings.
func (h *HalfBlock) Render(ctx context.Context, imagePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := decodeJPEG(imagePath)
	if err != nil {
		return nil, err
	}

	scaled := scaleToGrid(img, h.cols, h.rows)

	var sb strings.Builder

	writeHalfBlocks(scaled, h.cols, h.rows, &sb)

	return []byte(sb.String()), nil
}

func decodeJPEG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frame artifact: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding frame artifact: %w", err)
	}

	return img, nil
}

// scaleToGrid scales img to fit within cols x rows cells (each cell is two
// vertical pixels), centered and padded with black.
func scaleToGrid(img image.Image, cols, rows int) *image.RGBA {
	pixW := cols
	pixH := rows * 2

	dst := image.NewRGBA(image.Rect(0, 0, pixW, pixH))

	srcBounds := img.Bounds()
	srcW := srcBounds.Dx()
	srcH := srcBounds.Dy()

	if srcW == 0 || srcH == 0 {
		return dst
	}

	scaleX := float64(pixW) / float64(srcW)
	scaleY := float64(pixH) / float64(srcH)

	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	newW := int(float64(srcW) * scale)
	newH := int(float64(srcH) * scale)

	offsetX := (pixW - newW) / 2
	offsetY := (pixH - newH) / 2

	dstRect := image.Rect(offsetX, offsetY, offsetX+newW, offsetY+newH)
	draw.ApproxBiLinear.Scale(dst, dstRect, img, srcBounds, draw.Over, nil)

	return dst
}

// writeHalfBlocks emits one terminal row per cell row: the top pixel is the
// foreground color and the bottom pixel the background color of a "▀". Rows
// end in CRLF since the terminal is in raw mode during playback.
func writeHalfBlocks(img *image.RGBA, cols, rows int, sb *strings.Builder) {
	pixH := img.Bounds().Dy()

	for row := range rows {
		topY := row * 2
		botY := topY + 1

		for x := range cols {
			top := img.RGBAAt(x, topY)

			var botR, botG, botB uint8
			if botY < pixH {
				bot := img.RGBAAt(x, botY)
				botR, botG, botB = bot.R, bot.G, bot.B
			}

			fmt.Fprintf(sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, botR, botG, botB)
		}

		sb.WriteString("\x1b[0m")

		if row < rows-1 {
			sb.WriteString("\r\n")
		}
	}
}
