package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/smallbiznis/pharmabill/internal/config"
)

// Provider renders printable bill documents.
type Provider interface {
	RenderBill(ctx context.Context, doc BillDocument) (io.Reader, error)
}

// NoOpProvider renders nothing; used when PDF output is disabled.
type NoOpProvider struct{}

func (p *NoOpProvider) RenderBill(ctx context.Context, doc BillDocument) (io.Reader, error) {
	return bytes.NewReader(nil), nil
}

type PDFProvider struct{}

func New(cfg config.Config) Provider {
	if !cfg.PDFEnabled {
		return &NoOpProvider{}
	}
	return &PDFProvider{}
}
