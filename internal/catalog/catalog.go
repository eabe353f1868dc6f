// Package catalog holds the schemas this service imports and the export
// wiring that stores their valid rows.
package catalog

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/sheetimport/internal/core"
	"github.com/JonMunkholm/sheetimport/internal/store"
	"github.com/google/uuid"
)

// Schema keys.
const (
	KeyProducts  = "product_prices"
	KeyCustomers = "customers"
)

// Register adds every catalog schema to reg. With a nil sink the
// definitions are validate-only.
func Register(reg *core.Registry, sink *store.Sink) error {
	defs := []core.Definition{
		{
			Key:    KeyProducts,
			Group:  "Catalog",
			Label:  "Price List",
			Schema: ProductSchema,
		},
		{
			Key:    KeyCustomers,
			Group:  "CRM",
			Label:  "Customers",
			Schema: CustomerSchema,
		},
	}

	if sink != nil {
		defs[0].Export = exporter(sink, ProductSchema, productBinding, productTable)
		defs[0].Rollback = rollback(sink, productTable.Name)
		defs[1].Export = exporter(sink, CustomerSchema, core.Binding[Customer]{}, customerTable)
		defs[1].Rollback = rollback(sink, customerTable.Name)
	}

	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Ensure creates the catalog tables if they do not exist.
func Ensure(ctx context.Context, sink *store.Sink) error {
	return sink.Ensure(ctx, productTable.DDL, customerTable.DDL)
}

// exporter translates the valid records of a result and copies them into
// table under the result's import id.
func exporter[T any](sink *store.Sink, schema *core.Schema, binding core.Binding[T], table store.Table[T]) core.ExportFunc {
	tr := core.NewTranslator[T](schema).Bind(binding)

	return func(ctx context.Context, res *core.Result) (int64, error) {
		if res.Schema != schema.Name() {
			return 0, fmt.Errorf("export %s: result is for schema %q", table.Name, res.Schema)
		}
		items, err := tr.TranslateValid(res)
		if err != nil {
			return 0, fmt.Errorf("export %s: %w", table.Name, err)
		}
		return store.Copy(ctx, sink, table, res.ID, items)
	}
}

func rollback(sink *store.Sink, table string) core.RollbackFunc {
	return func(ctx context.Context, importID uuid.UUID) (int64, error) {
		return sink.DeleteImport(ctx, table, importID)
	}
}
