package core

import (
	"fmt"
	"regexp"
	"strings"
)

// ValueType is the Go type a column's cells are coerced to.
type ValueType int

const (
	TypeString  ValueType = iota // string
	TypeInteger                  // int64
	TypeDecimal                  // float64
	TypeDate                     // time.Time
	TypeBool                     // bool
	TypeUUID                     // uuid.UUID
)

// String returns a human-readable name for a value type.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeDecimal:
		return "decimal"
	case TypeDate:
		return "date"
	case TypeBool:
		return "bool"
	case TypeUUID:
		return "uuid"
	default:
		return "value"
	}
}

// Matcher is a single format constraint on a cell's text.
type Matcher interface {
	// Match reports whether value satisfies the constraint. rec is the record
	// being populated and may be nil.
	Match(value string, rec *Record) bool
	// String describes the constraint in error details.
	String() string
}

type literal string

// Literal matches a cell whose text is exactly s.
func Literal(s string) Matcher { return literal(s) }

func (l literal) Match(value string, _ *Record) bool { return value == string(l) }
func (l literal) String() string                     { return fmt.Sprintf("%q", string(l)) }

type pattern struct {
	re *regexp.Regexp
}

// Pattern matches cell text against a regular expression. It panics if expr
// does not compile, like regexp.MustCompile.
func Pattern(expr string) Matcher { return pattern{re: regexp.MustCompile(expr)} }

// PatternOf wraps an already compiled regular expression.
func PatternOf(re *regexp.Regexp) Matcher { return pattern{re: re} }

func (p pattern) Match(value string, _ *Record) bool { return p.re.MatchString(value) }
func (p pattern) String() string                     { return "/" + p.re.String() + "/" }

type oneOf []string

// OneOf matches any of the listed values, case-insensitively.
func OneOf(values ...string) Matcher { return oneOf(values) }

func (o oneOf) Match(value string, _ *Record) bool {
	for _, v := range o {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func (o oneOf) String() string { return "one of: " + strings.Join(o, ", ") }

type matchFunc struct {
	desc string
	fn   func(string, *Record) bool
}

// MatchFunc adapts a function into a Matcher. desc is shown in error details.
func MatchFunc(desc string, fn func(value string, rec *Record) bool) Matcher {
	return matchFunc{desc: desc, fn: fn}
}

func (m matchFunc) Match(value string, rec *Record) bool { return m.fn(value, rec) }
func (m matchFunc) String() string                       { return m.desc }

// TranslateFunc copies or derives a column value onto a translation target.
// target is a pointer to the struct being built.
type TranslateFunc func(value any, target any) error

// ColumnSpec declares one expected spreadsheet column.
type ColumnSpec struct {
	Name       string              // Header text (must match the sheet exactly)
	Type       ValueType           // Coercion target
	Formats    []Matcher           // Any one must match; empty means unrestricted
	Required   bool                // Column must exist in the header row
	Normalizer func(string) string // Optional transform applied before validation
	Translate  TranslateFunc       // Optional rule overriding field copy on translation
}

// key returns the lower-cased name used for error lookup.
func (c ColumnSpec) key() string {
	return strings.ToLower(c.Name)
}

// BatchHook runs once after all rows of an import are read. It may add errors
// to records for cross-row checks such as uniqueness.
type BatchHook func(records []*Record)

// Schema is an ordered, immutable set of ColumnSpecs for one record type.
type Schema struct {
	name    string
	columns []ColumnSpec
	index   map[string]int
	batch   []BatchHook
}

// SchemaOption configures a Schema at construction.
type SchemaOption func(*Schema)

// WithBatchValidation adds a hook invoked once per import with every record.
// Hooks run in the order they were added.
func WithBatchValidation(hook BatchHook) SchemaOption {
	return func(s *Schema) {
		if hook != nil {
			s.batch = append(s.batch, hook)
		}
	}
}

// NewSchema creates a schema from columns in declaration order.
// Returns an error if a column name is empty or declared twice.
func NewSchema(name string, columns []ColumnSpec, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{
		name:    name,
		columns: make([]ColumnSpec, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)

	for i, col := range s.columns {
		if col.Name == "" {
			return nil, fmt.Errorf("schema %s: column %d has no name", name, i)
		}
		if _, dup := s.index[col.Name]; dup {
			return nil, fmt.Errorf("schema %s: duplicate column %q", name, col.Name)
		}
		s.index[col.Name] = i
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
// Use it for package-level schema declarations.
func MustSchema(name string, columns []ColumnSpec, opts ...SchemaOption) *Schema {
	s, err := NewSchema(name, columns, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Len returns the number of declared columns.
func (s *Schema) Len() int { return len(s.columns) }

// Columns returns a copy of the column specs in declaration order.
func (s *Schema) Columns() []ColumnSpec {
	out := make([]ColumnSpec, len(s.columns))
	copy(out, s.columns)
	return out
}

// Column looks up a column by exact name.
func (s *Schema) Column(name string) (ColumnSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return ColumnSpec{}, false
	}
	return s.columns[i], true
}

// Names returns the column names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

// Required returns the names of required columns in declaration order.
func (s *Schema) Required() []string {
	var names []string
	for _, col := range s.columns {
		if col.Required {
			names = append(names, col.Name)
		}
	}
	return names
}

func (s *Schema) runBatch(records []*Record) {
	for _, hook := range s.batch {
		hook(records)
	}
}
