package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
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

func (p *PDFProvider) RenderStatement(ctx context.Context, statement Statement) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Invoice "+statement.InvoiceNumber, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Date of issue: "+statement.IssueDate, props.Text{Top: 0}),
			text.New("Date due: "+statement.DueDate, props.Text{Top: 4}),
			text.New("Status: "+statement.Status, props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Event", props.Text{Style: fontstyle.Bold}),
			text.New(statement.EventName, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Billed to", props.Text{Style: fontstyle.Bold}),
			text.New(statement.UserName, props.Text{Top: 5}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, "Amount due: "+statement.Amount, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	if statement.Description != "" {
		m.AddRow(10,
			text.NewCol(12, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		)
		m.AddRow(20,
			text.NewCol(12, statement.Description, props.Text{Size: 9}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, "Generated "+statement.GeneratedAt, props.Text{
			Size:  8,
			Align: align.Right,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
