package artifacts

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// leafColumn describes one parquet leaf column of an artifact table after
// projection has been applied.
type leafColumn struct {
	index    int
	field    string // record field name; empty when projected out
	sub      string // struct field name for list-of-struct leaves
	repeated bool
}

// ReadTable reads a parquet artifact table into records, in file order.
// When columns are given, exactly those columns are projected and a column
// missing from the file is an error; otherwise all columns are read.
//
// Supported column shapes are scalars, lists of scalars, and one level of
// list-of-struct. A null list value yields an absent field rather than an
// empty list.
func ReadTable(path string, columns ...string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact table: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat artifact table: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}

	leaves, err := resolveColumns(pf.Schema(), columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var records []Record
	for _, rowGroup := range pf.RowGroups() {
		records, err = readRowGroup(records, rowGroup, leaves)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
		}
	}
	return records, nil
}

func readRowGroup(records []Record, rowGroup parquet.RowGroup, leaves []leafColumn) ([]Record, error) {
	rows := rowGroup.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, 64)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			records = append(records, assembleRecord(leaves, row))
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return records, nil
		}
	}
}

// resolveColumns maps the schema's leaf columns to record fields and
// validates the projection against the columns actually present.
func resolveColumns(schema *parquet.Schema, want []string) ([]leafColumn, error) {
	wanted := make(map[string]bool, len(want))
	for _, name := range want {
		wanted[name] = true
	}

	present := make(map[string]bool)
	paths := schema.Columns()
	leaves := make([]leafColumn, 0, len(paths))
	for i, path := range paths {
		logical := logicalPath(path)
		if len(logical) == 0 || len(logical) > 2 {
			return nil, fmt.Errorf("%w: column %v", ErrUnsupportedShape, path)
		}

		field := logical[0]
		present[field] = true

		col := leafColumn{
			index:    i,
			field:    field,
			repeated: pathRepeated(schema, path),
		}
		if len(logical) == 2 {
			col.sub = logical[1]
		}
		if len(want) > 0 && !wanted[field] {
			col.field = ""
		}
		leaves = append(leaves, col)
	}

	for _, name := range want {
		if !present[name] {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}
	return leaves, nil
}

// logicalPath strips the intermediate group names of the parquet LIST
// encoding ("list"/"element", or "item" for files written by pyarrow) so
// only user-facing field names remain.
func logicalPath(path []string) []string {
	logical := make([]string, 0, len(path))
	for _, segment := range path {
		switch segment {
		case "list", "element", "item":
			continue
		}
		logical = append(logical, segment)
	}
	return logical
}

// pathRepeated reports whether any node along a leaf column path is
// repeated, which marks the column as a list.
func pathRepeated(node parquet.Node, path []string) bool {
	repeated := false
	for _, name := range path {
		child := fieldByName(node, name)
		if child == nil {
			break
		}
		if child.Repeated() {
			repeated = true
		}
		node = child
	}
	return repeated
}

func fieldByName(node parquet.Node, name string) parquet.Field {
	for _, field := range node.Fields() {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

// assembleRecord converts one parquet row into a Record. Values in a row
// carry their leaf column index, and repeated columns contribute one value
// per list element, so grouping by column index recovers each field.
// For list-of-struct columns the leaves align positionally: element i of
// every struct leaf belongs to list entry i.
func assembleRecord(leaves []leafColumn, row parquet.Row) Record {
	groups := make([][]parquet.Value, len(leaves))
	for _, value := range row {
		col := value.Column()
		groups[col] = append(groups[col], value)
	}

	record := make(Record, len(leaves))
	nested := make(map[string][]map[string]any)
	for _, leaf := range leaves {
		if leaf.field == "" {
			continue
		}
		values := groups[leaf.index]

		switch {
		case leaf.sub != "":
			if listIsNull(values) {
				continue
			}
			elements := nested[leaf.field]
			for i, value := range values {
				if i >= len(elements) {
					elements = append(elements, make(map[string]any))
				}
				if !value.IsNull() {
					elements[i][leaf.sub] = scalarValue(value)
				}
			}
			nested[leaf.field] = elements

		case leaf.repeated:
			if listIsNull(values) {
				continue
			}
			record[leaf.field] = listValue(values)

		default:
			if len(values) == 0 || values[0].IsNull() {
				continue
			}
			record[leaf.field] = scalarValue(values[0])
		}
	}

	for field, elements := range nested {
		list := make([]any, len(elements))
		for i, element := range elements {
			list[i] = element
		}
		record[field] = list
	}
	return record
}

func listIsNull(values []parquet.Value) bool {
	return len(values) == 0 || (len(values) == 1 && values[0].IsNull())
}

// listValue converts the values of a repeated column into a list. A list
// whose elements are all doubles becomes a []float64 so dense vectors such
// as embeddings keep their numeric shape.
func listValue(values []parquet.Value) any {
	list := make([]any, 0, len(values))
	numeric := true
	for _, value := range values {
		if value.IsNull() {
			continue
		}
		element := scalarValue(value)
		if _, ok := element.(float64); !ok {
			numeric = false
		}
		list = append(list, element)
	}
	if numeric && len(list) > 0 {
		vector := make([]float64, len(list))
		for i, element := range list {
			vector[i] = element.(float64)
		}
		return vector
	}
	return list
}

func scalarValue(value parquet.Value) any {
	switch value.Kind() {
	case parquet.Boolean:
		return value.Boolean()
	case parquet.Int32:
		return int64(value.Int32())
	case parquet.Int64:
		return value.Int64()
	case parquet.Float:
		return float64(value.Float())
	case parquet.Double:
		return value.Double()
	default:
		return value.String()
	}
}
