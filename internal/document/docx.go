package document

import (
	"bytes"
	"io"

	gdoc "baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"
)

// Options control the appearance of exported documents.
type Options struct {
	NameSize    float64
	HeadingSize float64
	BodySize    float64
}

// DefaultOptions are the export sizes in points.
var DefaultOptions = Options{NameSize: 18, HeadingSize: 12, BodySize: 10.5}

// Export lays out the tailored text and writes it as a DOCX document. The
// header is taken from the original résumé, which keeps the name and contact
// line even when the tailored text dropped them.
func Export(w io.Writer, original, tailored string, opts Options) error {
	return WriteBlocks(w, Layout(ExtractHeader(original), Parse(tailored)), opts)
}

// ExportBytes is Export into a byte slice.
func ExportBytes(original, tailored string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, original, tailored, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteBlocks renders blocks to w.
func WriteBlocks(w io.Writer, blocks []Block, opts Options) error {
	if opts.BodySize == 0 {
		opts = DefaultOptions
	}
	doc := gdoc.New()

	for _, b := range blocks {
		para := doc.AddParagraph()
		props := para.Properties()
		run := para.AddRun()

		switch b.Kind {
		case BlockName:
			props.SetAlignment(wml.ST_JcCenter)
			run.Properties().SetBold(true)
			run.Properties().SetSize(measurement.Distance(opts.NameSize) * measurement.Point)
		case BlockContact:
			props.SetAlignment(wml.ST_JcCenter)
			props.Spacing().SetAfter(6 * measurement.Point)
			run.Properties().SetSize(measurement.Distance(opts.BodySize) * measurement.Point)
		case BlockHeading:
			props.Spacing().SetBefore(10 * measurement.Point)
			props.Spacing().SetAfter(4 * measurement.Point)
			run.Properties().SetBold(true)
			run.Properties().SetSize(measurement.Distance(opts.HeadingSize) * measurement.Point)
		case BlockSubheading:
			props.Spacing().SetBefore(4 * measurement.Point)
			run.Properties().SetBold(true)
			run.Properties().SetSize(measurement.Distance(opts.BodySize) * measurement.Point)
		case BlockBullet:
			props.SetStartIndent(0.25 * measurement.Inch)
			run.Properties().SetSize(measurement.Distance(opts.BodySize) * measurement.Point)
			run.AddText("• ")
		default:
			run.Properties().SetSize(measurement.Distance(opts.BodySize) * measurement.Point)
		}
		run.AddText(b.Text)
	}

	return doc.Save(w)
}
