package seed

import (
	"context"

	"github.com/duepilot/duepilot/pkg/models"
)

// Source serves a fixed invoice set. It stands in for the external invoicing
// system during demos and tests.
type Source struct {
	invoices []*models.Invoice
}

func NewSource(invoices []*models.Invoice) *Source {
	return &Source{invoices: invoices}
}

// NewSourceFromFile loads the fixtures at path into a Source.
func NewSourceFromFile(path string) (*Source, error) {
	invoices, err := Invoices(path)
	if err != nil {
		return nil, err
	}

	return NewSource(invoices), nil
}

// ListInvoices returns the invoice set. Callers must not mutate the entries.
func (s *Source) ListInvoices(_ context.Context) ([]*models.Invoice, error) {
	return s.invoices, nil
}
