package dataset

import (
	"errors"
	"fmt"
	"strings"

	"ecomdash/internal/core"
)

var ErrEmptyCustomerID = errors.New("empty customer_id")

// Decoder turns raw text rows into order lines using a header row.
type Decoder struct {
	source string
	schema core.Schema
	cols   map[string]int
}

// NewDecoder validates the header and returns a decoder for its rows.
func NewDecoder(source string, header []string) (*Decoder, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	names := make([]string, 0, len(cols))
	for h := range cols {
		names = append(names, h)
	}
	schema := core.NewSchema(names)
	if err := schema.Require(source, core.RequiredColumns...); err != nil {
		return nil, err
	}
	return &Decoder{source: source, schema: schema, cols: cols}, nil
}

// Schema returns the columns declared by the header.
func (d *Decoder) Schema() core.Schema {
	return d.schema
}

func (d *Decoder) cell(row []string, col string) string {
	i, ok := d.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Decode converts one row. line is the 1-based position in the source and
// is only used for error reporting.
func (d *Decoder) Decode(row []string, line int) (core.OrderLine, error) {
	customer := d.cell(row, core.ColCustomerID)
	if customer == "" {
		return core.OrderLine{}, &core.InputLoadError{Source: d.source, Line: line, Err: ErrEmptyCustomerID}
	}
	payment, err := core.ParsePayment(d.cell(row, core.ColPayment))
	if err != nil {
		return core.OrderLine{}, &core.InputLoadError{
			Source: d.source,
			Line:   line,
			Err:    fmt.Errorf("%w %q", err, d.cell(row, core.ColPayment)),
		}
	}
	return core.OrderLine{
		OrderID:    d.cell(row, core.ColOrderID),
		CustomerID: customer,
		ProductID:  d.cell(row, core.ColProductID),
		Category:   core.NewNullString(d.cell(row, core.ColCategory)),
		City:       core.NewNullString(d.cell(row, core.ColCity)),
		ApprovedAt: core.ParseNullTime(d.cell(row, core.ColApprovedAt)),
		Payment:    payment,
	}, nil
}
