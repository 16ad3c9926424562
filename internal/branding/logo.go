package branding

import (
	"fmt"
	"hash/fnv"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
)

const logoSize = 512

// Brand palette candidates; the business name picks one deterministically
// so regenerating the logo doesn't shuffle colors.
var logoPalette = [][3]float64{
	{0.13, 0.35, 0.62},
	{0.55, 0.23, 0.49},
	{0.09, 0.47, 0.38},
	{0.75, 0.39, 0.13},
	{0.33, 0.30, 0.60},
	{0.61, 0.17, 0.20},
}

// RenderLogo draws a placeholder initials mark for a business and writes it
// as a PNG. It stands in until the owner uploads real artwork.
func RenderLogo(businessName, outputPath string) error {
	dc := gg.NewContext(logoSize, logoSize)

	bg := logoPalette[paletteIndex(businessName)]
	dc.SetRGB(bg[0], bg[1], bg[2])
	dc.Clear()

	// Soft inner circle behind the initials.
	dc.SetRGBA(1, 1, 1, 0.12)
	dc.DrawCircle(logoSize/2, logoSize/2, logoSize*0.42)
	dc.Fill()

	font, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}

	text := initials(businessName)
	size := 220.0
	if len(text) > 2 {
		size = 160.0
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: size}))
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, logoSize/2, logoSize/2, 0.5, 0.5)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, dc.Image()); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}

	slog.Debug("rendered placeholder logo", "business", businessName, "output", outputPath)
	return nil
}

// initials takes the first letter of up to three words.
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 3 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func paletteIndex(name string) int {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(name)))
	return int(h.Sum32() % uint32(len(logoPalette)))
}
