package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateCertificate(ctx context.Context, data CertificateData) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(40,
		col.New(8).Add(
			text.New("Product certificate", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}),
			text.New(data.Title, props.Text{Top: 6, Size: 20, Style: fontstyle.Bold, Align: align.Left}),
			text.New(data.Subtitle, props.Text{Top: 18, Size: 10, Align: align.Left}),
		),
		code.NewQrCol(4, data.QRContent, props.Rect{
			Center:  true,
			Percent: 90,
		}),
	)

	for _, section := range data.Sections {
		m.AddRow(12,
			text.NewCol(12, section.Title, props.Text{
				Top:   4,
				Size:  11,
				Style: fontstyle.Bold,
			}),
		)
		for _, field := range section.Fields {
			m.AddRow(8,
				text.NewCol(6, field.Label, props.Text{Size: 9}),
				text.NewCol(6, field.Value, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	if data.Footer != "" {
		m.AddRow(15,
			text.NewCol(12, data.Footer, props.Text{Top: 6, Size: 8}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
