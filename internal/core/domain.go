package core

import (
	"strings"
	"time"
)

// Column names of the order dataset header.
const (
	ColOrderID    = "order_id"
	ColCustomerID = "customer_id"
	ColProductID  = "product_id"
	ColCategory   = "product_category_name_english"
	ColCity       = "customer_city"
	ColApprovedAt = "order_approved_at"
	ColPayment    = "payment_value"
)

// Columns lists the dataset columns in their canonical header order.
var Columns = []string{
	ColOrderID,
	ColCustomerID,
	ColProductID,
	ColCategory,
	ColCity,
	ColApprovedAt,
	ColPayment,
}

// RequiredColumns must be present in every source header.
var RequiredColumns = []string{ColCustomerID, ColPayment}

type (
	// NullString is a string cell that may be absent.
	NullString struct {
		String string
		Valid  bool
	}

	// NullTime is a timestamp cell that may be absent or unparseable.
	NullTime struct {
		Time  time.Time
		Valid bool
	}

	// OrderLine is one payment/product fact joined with customer attributes.
	OrderLine struct {
		OrderID    string
		CustomerID string
		ProductID  string
		Category   NullString
		City       NullString
		ApprovedAt NullTime
		Payment    Money
	}

	// Schema records which columns the source header declared.
	Schema struct {
		columns map[string]struct{}
	}

	// Dataset is the immutable collection of order lines loaded at startup.
	Dataset struct {
		schema Schema
		lines  []OrderLine
	}
)

// timestampLayouts are tried in order when parsing order_approved_at.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// NewNullString returns an invalid value for blank input.
func NewNullString(s string) NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullString{}
	}
	return NullString{String: s, Valid: true}
}

// ParseNullTime parses a timestamp cell. Blank or unparseable input yields
// an invalid value instead of an error.
func ParseNullTime(s string) NullTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullTime{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return NullTime{Time: t.UTC(), Valid: true}
		}
	}
	return NullTime{}
}

// NewNullTime wraps a known timestamp.
func NewNullTime(t time.Time) NullTime {
	return NullTime{Time: t, Valid: true}
}

// After reports whether n is valid and later than o, or n is valid and o is not.
func (n NullTime) After(o NullTime) bool {
	if !n.Valid {
		return false
	}
	return !o.Valid || n.Time.After(o.Time)
}

// Within reports whether the timestamp lies in the inclusive range [start, end].
// An invalid timestamp is never within any range.
func (n NullTime) Within(start, end time.Time) bool {
	if !n.Valid {
		return false
	}
	return !n.Time.Before(start) && !n.Time.After(end)
}

// NewSchema builds a schema from a header row.
func NewSchema(header []string) Schema {
	cols := make(map[string]struct{}, len(header))
	for _, h := range header {
		cols[strings.TrimSpace(h)] = struct{}{}
	}
	return Schema{columns: cols}
}

// FullSchema declares every dataset column.
func FullSchema() Schema {
	return NewSchema(Columns)
}

// Has reports whether the column was declared.
func (s Schema) Has(col string) bool {
	_, ok := s.columns[col]
	return ok
}

// Missing returns the subset of cols absent from the schema, in order.
func (s Schema) Missing(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if !s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Require returns a MalformedInputError for the first absent column.
func (s Schema) Require(component string, cols ...string) error {
	if missing := s.Missing(cols...); len(missing) > 0 {
		return &MalformedInputError{Component: component, Column: missing[0]}
	}
	return nil
}

// NewDataset validates the schema and takes ownership of lines.
func NewDataset(schema Schema, lines []OrderLine) (*Dataset, error) {
	if err := schema.Require("dataset", RequiredColumns...); err != nil {
		return nil, err
	}
	return &Dataset{schema: schema, lines: lines}, nil
}

// Schema returns the declared columns.
func (d *Dataset) Schema() Schema {
	return d.schema
}

// Len returns the number of order lines.
func (d *Dataset) Len() int {
	return len(d.lines)
}

// Lines returns the order lines. Callers must not modify the slice.
func (d *Dataset) Lines() []OrderLine {
	return d.lines
}
