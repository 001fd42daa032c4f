package export

import (
	"strconv"
	"strings"

	"torn_item_value/internal/items"
)

// FieldName is one of the logical columns selectable in the data order.
type FieldName int

const (
	NameField FieldName = iota
	ItemIDField
	QuantityField
	ValueField
)

// DefaultDataOrder is the column order used when none is configured.
const DefaultDataOrder = "name,itemid,quantity,value"

type fieldDef struct {
	token   string
	label   string
	jsonKey string
	value   func(items.ItemRecord) any
}

// fieldTable is shared by header and row generation so both select the same
// columns for a given order.
var fieldTable = map[FieldName]fieldDef{
	NameField:     {token: "name", label: "Item Name", jsonKey: "name", value: func(r items.ItemRecord) any { return r.Name }},
	ItemIDField:   {token: "itemid", label: "Item ID", jsonKey: "id", value: func(r items.ItemRecord) any { return r.ID }},
	QuantityField: {token: "quantity", label: "Quantity", jsonKey: "quantity", value: func(r items.ItemRecord) any { return r.Quantity }},
	ValueField:    {token: "value", label: "Value", jsonKey: "value", value: func(r items.ItemRecord) any { return r.TotalValue() }},
}

var fieldsByToken = func() map[string]FieldName {
	m := make(map[string]FieldName, len(fieldTable))
	for f, def := range fieldTable {
		m[def.token] = f
	}
	return m
}()

// LookupField resolves a data order token. Matching is exact: "Name" and
// " value" are unknown tokens.
func LookupField(token string) (FieldName, bool) {
	f, ok := fieldsByToken[token]
	return f, ok
}

func (f FieldName) String() string {
	if def, ok := fieldTable[f]; ok {
		return def.token
	}
	return "FieldName(" + strconv.Itoa(int(f)) + ")"
}

// ParseDataOrder splits a comma separated data order into tokens. Tokens are
// not trimmed; empty ones are dropped and unknown ones are kept and skipped
// at format time.
func ParseDataOrder(s string) []string {
	var order []string
	for _, token := range strings.Split(s, ",") {
		if token == "" {
			continue
		}
		order = append(order, token)
	}
	return order
}

func selectFields(order []string) []fieldDef {
	defs := make([]fieldDef, 0, len(order))
	for _, token := range order {
		f, ok := LookupField(token)
		if !ok {
			continue
		}
		defs = append(defs, fieldTable[f])
	}
	return defs
}

// FormatFields renders one record's values in data order. Unknown tokens
// produce nothing and duplicates repeat the value.
func FormatFields(record items.ItemRecord, order []string) []string {
	defs := selectFields(order)
	out := make([]string, 0, len(defs))
	for _, def := range defs {
		switch v := def.value(record).(type) {
		case string:
			out = append(out, v)
		case int:
			out = append(out, strconv.Itoa(v))
		}
	}
	return out
}

// HeaderFields returns the column labels for the same selection FormatFields makes.
func HeaderFields(order []string) []string {
	defs := selectFields(order)
	out := make([]string, 0, len(defs))
	for _, def := range defs {
		out = append(out, def.label)
	}
	return out
}

// jsonObject keys the selected fields by their canonical JSON names.
func jsonObject(record items.ItemRecord, order []string) map[string]any {
	obj := make(map[string]any, len(order))
	for _, def := range selectFields(order) {
		obj[def.jsonKey] = def.value(record)
	}
	return obj
}
