package render

import (
	"context"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"

	"htmlpdf/boxes"
	"htmlpdf/fonts"
	"htmlpdf/layout"
)

var fontStyles = []string{fonts.StyleRegular, fonts.StyleBold, fonts.StyleItalic, fonts.StyleBoldItalic}

// PDF renders with fpdf. Registered font is embedded as UTF-8 font under all
// styles, using its bold and italic programs when they were found. Without
// one core Helvetica with cp1252 translation is used.
type PDF struct {
	log  *zap.Logger
	font *fonts.Font

	// measure is never output, it only holds fonts for measurement
	measure *fpdf.Fpdf
	tr      func(string) string
}

func NewPDF(reg *fonts.Registry, log *zap.Logger) (*PDF, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &PDF{log: log.Named("pdf")}
	if f, ok := reg.Substitution(); ok {
		b.font = f
	}

	doc, err := b.newDocument(layout.A4)
	if err != nil {
		return nil, err
	}
	b.measure = doc
	if b.font == nil {
		b.tr = doc.UnicodeTranslatorFromDescriptor("")
		b.log.Debug("Using core fonts", zap.String("family", fonts.BuiltinFamily))
	} else {
		b.tr = func(s string) string { return s }
		b.log.Debug("Using embedded font", zap.String("family", b.font.Name), zap.String("path", b.font.Path))
	}
	return b, nil
}

func (b *PDF) family() string {
	if b.font != nil {
		return b.font.Name
	}
	return fonts.BuiltinFamily
}

func fontStyle(face boxes.Face) string {
	var s string
	if face.Bold {
		s += "B"
	}
	if face.Italic {
		s += "I"
	}
	return s
}

func (b *PDF) newDocument(size layout.Size) (*fpdf.Fpdf, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	if b.font != nil {
		for _, style := range fontStyles {
			data, _ := b.font.Variant(style)
			doc.AddUTF8FontFromBytes(b.font.Name, style, data)
		}
	}
	if doc.Err() {
		return nil, fmt.Errorf("unable to initialize pdf document: %w", doc.Error())
	}
	return doc, nil
}

func (b *PDF) Measurer() layout.Measurer {
	return layout.MeasureFunc(func(text string, face boxes.Face) float64 {
		b.measure.SetFont(b.family(), fontStyle(face), face.Size)
		return b.measure.GetStringWidth(b.tr(text))
	})
}

// Render opens a page for every page index, empty draw list still produces
// single empty page.
func (b *PDF) Render(ctx context.Context, instrs []layout.Instruction, geom layout.Geometry, meta Meta, path string) error {
	doc, err := b.newDocument(geom.Size)
	if err != nil {
		return err
	}
	if len(meta.Title) > 0 {
		doc.SetTitle(meta.Title, true)
	}
	if len(meta.Creator) > 0 {
		doc.SetCreator(meta.Creator, true)
	}
	doc.SetCreationDate(meta.date())
	doc.SetModificationDate(meta.date())

	left, top := geom.Margins.Left, geom.Margins.Top
	opened := 0
	for _, in := range instrs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for opened <= in.Page {
			doc.AddPage()
			opened++
		}
		switch in.Kind {
		case layout.TextLine:
			for _, f := range in.Fragments {
				c := f.Fragment.Color
				doc.SetFont(b.family(), fontStyle(f.Fragment.Face), f.Fragment.Face.Size)
				doc.SetTextColor(int(c.R), int(c.G), int(c.B))
				doc.Text(left+f.X, top+in.Y, b.tr(f.Fragment.Text))
			}
		case layout.HorizontalRule:
			doc.SetDrawColor(0, 0, 0)
			doc.SetLineWidth(ruleWidth)
			doc.Line(left, top+in.Y, left+geom.ContentWidth(), top+in.Y)
		}
	}
	for opened < layout.Pages(instrs) {
		doc.AddPage()
		opened++
	}
	if doc.Err() {
		return fmt.Errorf("unable to render pdf: %w", doc.Error())
	}

	b.log.Debug("Writing pdf", zap.String("path", path), zap.Int("pages", opened))
	return writeFile(path, doc.Output)
}
