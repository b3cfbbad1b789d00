// Package pdf renders printable invoice statements.
package pdf

import (
	"context"
	"io"
)

// Statement is the render input for a single invoice. All values arrive
// preformatted; the renderer does no money or date arithmetic.
type Statement struct {
	InvoiceNumber string
	Status        string
	IssueDate     string
	DueDate       string
	EventName     string
	UserName      string
	Amount        string
	Description   string
	GeneratedAt   string
}

type Provider interface {
	RenderStatement(ctx context.Context, statement Statement) (io.Reader, error)
}
