package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpNil(t *testing.T) {
	dump := Dump(nil)
	if dump.Message != "" || dump.Chain != nil || dump.PG != nil {
		t.Fatalf("expected empty dump got %+v", dump)
	}
}

func TestDumpTypedError(t *testing.T) {
	err := Wrap(CodeConflict, fmt.Errorf("row changed"), "update order")

	dump := Dump(err)
	if dump.Code != CodeConflict {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if !dump.Retryable {
		t.Fatal("conflicts are retryable")
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain links got %d: %v", len(dump.Chain), dump.Chain)
	}
}

func TestDumpExtractsPgxDiagnostics(t *testing.T) {
	cause := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "order_items_order_id_product_id_key",
		TableName:      "order_items",
		Detail:         "Key (order_id, product_id) already exists.",
	}
	err := Wrap(CodeDependency, fmt.Errorf("upsert items: %w", cause), "update order")

	dump := Dump(err)
	if dump.PG == nil {
		t.Fatal("expected pg diagnostics")
	}
	if dump.PG.Code != "23505" || dump.PG.Constraint != "order_items_order_id_product_id_key" {
		t.Fatalf("unexpected diagnostics %+v", dump.PG)
	}
	if dump.PG.Table != "order_items" {
		t.Fatalf("unexpected table %q", dump.PG.Table)
	}
}

func TestDumpExtractsPqDiagnostics(t *testing.T) {
	cause := &pq.Error{Code: "40001", Message: "serialization failure"}

	dump := Dump(fmt.Errorf("commit: %w", cause))
	if dump.PG == nil {
		t.Fatal("expected pg diagnostics")
	}
	if dump.PG.Code != "40001" || dump.PG.Message != "serialization failure" {
		t.Fatalf("unexpected diagnostics %+v", dump.PG)
	}
}
