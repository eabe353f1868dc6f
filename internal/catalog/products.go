package catalog

import (
	"strings"
	"time"

	"github.com/JonMunkholm/sheetimport/internal/core"
	"github.com/JonMunkholm/sheetimport/internal/store"
)

// Product is one line of a price list.
type Product struct {
	SKU       string
	Name      string
	Price     float64 `sheet:"Unit Price"`
	Currency  string
	Active    bool
	Effective *time.Time `sheet:"Effective Date"`
}

// ProductSchema is the price list contract.
var ProductSchema = core.MustSchema("Price List", []core.ColumnSpec{
	{
		Name:       "SKU",
		Required:   true,
		Normalizer: NormalizeSKU,
		Formats:    []core.Matcher{core.Pattern(`^[A-Z0-9][A-Z0-9-]*$`)},
	},
	{
		Name:     "Name",
		Required: true,
		Formats:  []core.Matcher{core.Pattern(`\S`)},
	},
	{
		Name:     "Unit Price",
		Type:     core.TypeDecimal,
		Required: true,
		Formats:  []core.Matcher{core.Pattern(`^\(?[$€£]?-?[\d,]*\.?\d+\)?$`)},
	},
	{
		Name: "Currency",
		Formats: []core.Matcher{
			core.OneOf("USD", "EUR", "GBP"),
			core.Literal(""),
		},
		Translate: func(value any, target any) error {
			if s, _ := value.(string); s != "" {
				target.(*Product).Currency = strings.ToUpper(s)
			}
			return nil
		},
	},
	{
		Name: "Active",
		Type: core.TypeBool,
	},
	{
		Name: "Effective Date",
		Type: core.TypeDate,
	},
}, core.WithBatchValidation(core.UniqueColumns("SKU")))

var productBinding = core.Binding[Product]{
	Construct: func(*core.Record) *Product {
		return &Product{Currency: "USD", Active: true}
	},
}

var productTable = store.Table[Product]{
	Name:    "catalog_products",
	Columns: []string{"sku", "name", "unit_price", "currency", "active", "effective_date"},
	Values: func(p *Product) []any {
		return []any{p.SKU, p.Name, p.Price, p.Currency, p.Active, p.Effective}
	},
	DDL: `CREATE TABLE IF NOT EXISTS catalog_products (
	import_id      uuid NOT NULL,
	sku            text NOT NULL,
	name           text NOT NULL,
	unit_price     numeric(14,4) NOT NULL,
	currency       char(3) NOT NULL,
	active         boolean NOT NULL,
	effective_date timestamp
)`,
}
