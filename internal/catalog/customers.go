package catalog

import (
	"time"

	"github.com/JonMunkholm/sheetimport/internal/core"
	"github.com/JonMunkholm/sheetimport/internal/store"
	"github.com/google/uuid"
)

// Customer is one account of a customer list.
type Customer struct {
	AccountID uuid.UUID `sheet:"Account ID"`
	Name      string    `sheet:"Account Name"`
	Email     string
	State     string
	Seats     int64
	Since     time.Time `sheet:"Customer Since"`
}

// CustomerSchema is the customer list contract.
var CustomerSchema = core.MustSchema("Customers", []core.ColumnSpec{
	{
		Name:     "Account ID",
		Type:     core.TypeUUID,
		Required: true,
		Formats:  []core.Matcher{core.Pattern(`^[0-9a-fA-F-]{32,36}$`)},
	},
	{
		Name:     "Account Name",
		Required: true,
		Formats:  []core.Matcher{core.Pattern(`\S`)},
	},
	{
		Name:    "Email",
		Formats: []core.Matcher{core.Pattern(`^[^@\s]+@[^@\s]+\.[^@\s]+$`), core.Literal("")},
	},
	{
		Name:       "State",
		Normalizer: NormalizeUSState,
		Formats: []core.Matcher{core.MatchFunc("US state code", func(value string, _ *core.Record) bool {
			return value == "" || IsUSState(value)
		})},
	},
	{
		Name:    "Seats",
		Type:    core.TypeInteger,
		Formats: []core.Matcher{seatsMatcher, core.Literal("")},
	},
	{
		Name: "Customer Since",
		Type: core.TypeDate,
	},
}, core.WithBatchValidation(core.UniqueColumns("Account ID")))

// seatsMatcher requires a whole number of at least one seat.
var seatsMatcher = core.MatchFunc("positive whole number", func(value string, _ *core.Record) bool {
	n, err := core.ParseInteger(value)
	return err == nil && n > 0
})

var customerTable = store.Table[Customer]{
	Name:    "catalog_customers",
	Columns: []string{"account_id", "account_name", "email", "state", "seats", "customer_since"},
	Values: func(c *Customer) []any {
		var since *time.Time
		if !c.Since.IsZero() {
			since = &c.Since
		}
		return []any{c.AccountID, c.Name, nullable(c.Email), nullable(c.State), c.Seats, since}
	},
	DDL: `CREATE TABLE IF NOT EXISTS catalog_customers (
	import_id      uuid NOT NULL,
	account_id     uuid NOT NULL,
	account_name   text NOT NULL,
	email          text,
	state          char(2),
	seats          bigint NOT NULL DEFAULT 0,
	customer_since timestamp
)`,
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
