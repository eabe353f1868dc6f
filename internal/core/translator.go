package core

// translator.go projects Records onto a target struct type.
//
// For each record the target is built by the binding's Construct function,
// or as a zero value. Columns are then applied in schema declaration order:
// a column's own Translate rule if it has one, otherwise the value is copied
// onto the same-named exported field. Absent or nil values leave the
// target's field untouched.
//
// Field names are matched against column names ignoring case, spaces and
// underscores ("Unit Price" fills UnitPrice). A `sheet:"<name>"` struct tag
// takes precedence.

import (
	"fmt"
	"reflect"
	"strings"
)

// Binding configures how a Translator builds target objects.
type Binding[T any] struct {
	// Construct overrides default construction. It receives the record
	// before any column is applied.
	Construct func(*Record) *T

	// AfterTranslate runs once per batch with the original records, after
	// every record in the batch has been translated.
	AfterTranslate func([]*Record)
}

// Translator converts Records produced by one Schema into *T values.
//
// Bind is not synchronized: configure the translator before sharing it and
// do not re-bind while translations are running.
type Translator[T any] struct {
	schema  *Schema
	binding Binding[T]
	fields  map[string][]int
}

// NewTranslator creates a translator for records of schema.
func NewTranslator[T any](schema *Schema) *Translator[T] {
	return &Translator[T]{
		schema: schema,
		fields: fieldIndex(reflect.TypeOf((*T)(nil)).Elem()),
	}
}

// Bind replaces the translator's binding. The last call wins.
func (t *Translator[T]) Bind(b Binding[T]) *Translator[T] {
	t.binding = b
	return t
}

// TranslateOne builds a fresh target for rec and records it as rec's
// translated object.
func (t *Translator[T]) TranslateOne(rec *Record) (*T, error) {
	target, err := t.build(rec)
	if err != nil {
		return nil, err
	}
	rec.translated = target
	return target, nil
}

// build constructs and fills a target for rec without touching rec.
func (t *Translator[T]) build(rec *Record) (*T, error) {
	var target *T
	if t.binding.Construct != nil {
		target = t.binding.Construct(rec)
	}
	if target == nil {
		target = new(T)
	}

	for _, col := range t.schema.columns {
		value, ok := rec.attrs[col.Name]
		if !ok {
			continue
		}
		if err := t.apply(col, value, target); err != nil {
			return nil, fmt.Errorf("row %d: column %q: %w", rec.row, col.Name, err)
		}
	}
	return target, nil
}

// TranslateBatch translates records in order, then runs the AfterTranslate
// hook once with records. It stops at the first failing record; a failed
// batch leaves every record's translated object as it was.
func (t *Translator[T]) TranslateBatch(records []*Record) ([]*T, error) {
	out := make([]*T, 0, len(records))
	for _, rec := range records {
		obj, err := t.build(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	for i, rec := range records {
		rec.translated = out[i]
	}

	if t.binding.AfterTranslate != nil {
		t.binding.AfterTranslate(records)
	}
	return out, nil
}

// TranslateAll translates every record of res.
func (t *Translator[T]) TranslateAll(res *Result) ([]*T, error) {
	return t.TranslateBatch(res.All())
}

// TranslateValid translates only the valid records of res.
func (t *Translator[T]) TranslateValid(res *Result) ([]*T, error) {
	return t.TranslateBatch(res.Valid())
}

// TranslateInvalid translates only the invalid records of res.
func (t *Translator[T]) TranslateInvalid(res *Result) ([]*T, error) {
	return t.TranslateBatch(res.Invalid())
}

func (t *Translator[T]) apply(col ColumnSpec, value any, target *T) error {
	if col.Translate != nil {
		return col.Translate(value, target)
	}
	if value == nil {
		return nil
	}

	idx, ok := t.fields[fieldKey(col.Name)]
	if !ok {
		return nil
	}
	field, err := reflect.ValueOf(target).Elem().FieldByIndexErr(idx)
	if err != nil {
		// Promoted through a nil embedded pointer.
		return nil
	}
	return assign(field, reflect.ValueOf(value))
}

// fieldIndex maps normalized field names (and sheet tags) of a struct type
// to their field index. Non-struct types have no fields.
func fieldIndex(typ reflect.Type) map[string][]int {
	index := make(map[string][]int)
	if typ.Kind() != reflect.Struct {
		return index
	}

	// Tags first so they win over a coincidentally matching field name.
	for _, f := range reflect.VisibleFields(typ) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if tag := f.Tag.Get("sheet"); tag != "" && tag != "-" {
			index[fieldKey(tag)] = f.Index
		}
	}
	for _, f := range reflect.VisibleFields(typ) {
		if !f.IsExported() || f.Anonymous || f.Tag.Get("sheet") == "-" {
			continue
		}
		key := fieldKey(f.Name)
		if _, taken := index[key]; !taken {
			index[key] = f.Index
		}
	}
	return index
}

var fieldKeyReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

func fieldKey(name string) string {
	return strings.ToLower(fieldKeyReplacer.Replace(name))
}

// assign stores v into field, converting between numeric kinds and
// allocating pointer fields as needed.
func assign(field reflect.Value, v reflect.Value) error {
	ft := field.Type()

	if ft.Kind() == reflect.Pointer && v.Type() != ft {
		elem := reflect.New(ft.Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch {
	case v.Type().AssignableTo(ft):
		field.Set(v)
	case isNumeric(v.Kind()) && isNumeric(ft.Kind()):
		field.Set(v.Convert(ft))
	case v.Kind() == reflect.String && ft.Kind() == reflect.String:
		field.SetString(v.String())
	default:
		return fmt.Errorf("cannot assign %s to field of type %s", v.Type(), ft)
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
