package render

import (
	"context"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"htmlpdf/boxes"
	"htmlpdf/fonts"
	"htmlpdf/layout"
)

// Style index: bit 0 is bold, bit 1 is italic.
func styleIndex(face boxes.Face) int {
	var i int
	if face.Bold {
		i |= 1
	}
	if face.Italic {
		i |= 2
	}
	return i
}

type faceKey struct {
	style int
	size  float64
}

// PNG rasterizes every page into separate image at one pixel per point.
// Registered font and its style programs are used, otherwise Go fonts.
type PNG struct {
	log   *zap.Logger
	fonts [4]*truetype.Font
	faces map[faceKey]font.Face
}

func NewPNG(reg *fonts.Registry, log *zap.Logger) (*PNG, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &PNG{log: log.Named("png"), faces: make(map[faceKey]font.Face)}

	if sub, ok := reg.Substitution(); ok {
		parsed := make(map[string]*truetype.Font)
		// in style index order
		for i, style := range []string{fonts.StyleRegular, fonts.StyleBold, fonts.StyleItalic, fonts.StyleBoldItalic} {
			data, used := sub.Variant(style)
			if f, ok := parsed[used]; ok {
				b.fonts[i] = f
				continue
			}
			f, err := truetype.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("unable to parse font %q (%q): %w", sub.Name, used, err)
			}
			parsed[used], b.fonts[i] = f, f
		}
		return b, nil
	}

	for i, data := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF} {
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("unable to parse built-in font: %w", err)
		}
		b.fonts[i] = f
	}
	return b, nil
}

func (b *PNG) face(f boxes.Face) font.Face {
	key := faceKey{style: styleIndex(f), size: f.Size}
	if face, ok := b.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(b.fonts[key.style], &truetype.Options{Size: f.Size, DPI: 72})
	b.faces[key] = face
	return face
}

func (b *PNG) Measurer() layout.Measurer {
	return layout.MeasureFunc(func(text string, face boxes.Face) float64 {
		return float64(font.MeasureString(b.face(face), text)) / 64
	})
}

func (b *PNG) Render(ctx context.Context, instrs []layout.Instruction, geom layout.Geometry, _ Meta, path string) error {
	w, h := int(math.Ceil(geom.Width)), int(math.Ceil(geom.Height))
	if w <= 0 || h <= 0 {
		return fmt.Errorf("unable to rasterize page of %vx%v points", geom.Width, geom.Height)
	}
	left, top := geom.Margins.Left, geom.Margins.Top

	pages, next := layout.Pages(instrs), 0
	for page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		dc := gg.NewContext(w, h)
		dc.SetRGB(1, 1, 1)
		dc.Clear()
		for ; next < len(instrs) && instrs[next].Page == page; next++ {
			in := instrs[next]
			switch in.Kind {
			case layout.TextLine:
				for _, f := range in.Fragments {
					dc.SetFontFace(b.face(f.Fragment.Face))
					dc.SetColor(f.Fragment.Color)
					dc.DrawString(f.Fragment.Text, left+f.X, top+in.Y)
				}
			case layout.HorizontalRule:
				dc.SetRGB(0, 0, 0)
				dc.SetLineWidth(ruleWidth)
				dc.DrawLine(left, top+in.Y, left+geom.ContentWidth(), top+in.Y)
				dc.Stroke()
			}
		}

		name := PagePath(path, page)
		b.log.Debug("Writing page image", zap.String("path", name), zap.Int("page", page+1))
		if err := writeFile(name, dc.EncodePNG); err != nil {
			return err
		}
	}
	return nil
}
