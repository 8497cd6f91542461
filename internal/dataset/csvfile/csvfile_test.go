package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ecomdash/internal/core"
)

const sample = `order_id,customer_id,product_id,product_category_name_english,customer_city,order_approved_at,payment_value
o1,C1,p1,toys,sao paulo,2018-08-01 10:00:00,50.0
o2,C1,p1,toys,sao paulo,,30.0
o3,C2,p2,,rio de janeiro,not-a-date,100
`

func TestReadParsesRowsAndNulls(t *testing.T) {
	ds, err := Read(context.Background(), "sample.csv", strings.NewReader(sample), ',')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", ds.Len())
	}
	lines := ds.Lines()
	if !lines[0].ApprovedAt.Valid || lines[1].ApprovedAt.Valid || lines[2].ApprovedAt.Valid {
		t.Fatalf("unexpected approved_at validity: %+v", lines)
	}
	if lines[2].Category.Valid {
		t.Fatalf("empty category should be null")
	}
	if lines[1].Payment.String() != "30" {
		t.Fatalf("unexpected payment %s", lines[1].Payment.String())
	}
}

func TestReadMissingRequiredColumn(t *testing.T) {
	in := "order_id,customer_id,product_id\no1,C1,p1\n"
	_, err := Read(context.Background(), "bad.csv", strings.NewReader(in), ',')
	var mErr *core.MalformedInputError
	if !errors.As(err, &mErr) || mErr.Column != core.ColPayment {
		t.Fatalf("expected missing payment_value, got %v", err)
	}
}

func TestReadMalformedPaymentFailsLoad(t *testing.T) {
	in := "customer_id,payment_value\nC1,10\nC2,ten\n"
	_, err := Read(context.Background(), "bad.csv", strings.NewReader(in), ',')
	var lErr *core.InputLoadError
	if !errors.As(err, &lErr) {
		t.Fatalf("expected InputLoadError, got %v", err)
	}
	if lErr.Line != 3 || !errors.Is(err, core.ErrInvalidPayment) {
		t.Fatalf("unexpected error detail: %v", err)
	}
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(context.Background(), "empty.csv", strings.NewReader(""), ',')
	if !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestLoadSemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "all_data.csv")
	content := "customer_id;payment_value;customer_city\nC1;1.5;curitiba\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := New(path, ';').Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != 1 || ds.Lines()[0].City.String != "curitiba" {
		t.Fatalf("unexpected dataset: %+v", ds.Lines())
	}
	if ds.Schema().Has(core.ColCategory) {
		t.Fatalf("category column was not declared")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.csv"), 0).Load(context.Background())
	var lErr *core.InputLoadError
	if !errors.As(err, &lErr) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected InputLoadError wrapping not-exist, got %v", err)
	}
}
