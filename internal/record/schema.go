// Package record holds the schema, attribute and record value types shared
// by the record manager and the predicate evaluator: a closed set of four
// fixed-width data types, matching the original source's DT_INT/DT_FLOAT/
// DT_BOOL/DT_STRING.
package record

import "fmt"

// DataType is one of the four attribute types a Schema can declare.
type DataType int

const (
	Int DataType = iota
	Float
	Bool
	String
)

func (dt DataType) String() string {
	switch dt {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOL"
	case String:
		return "STRING"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

// width returns the on-disk width of a fixed-width type; typeLength is
// ignored for everything but String.
func (dt DataType) width(typeLength int) int {
	switch dt {
	case Int:
		return 4
	case Float:
		return 4
	case Bool:
		return 1
	case String:
		return typeLength
	default:
		return 0
	}
}

// Attribute is one column of a Schema: a name, a data type, and (for String
// only) a fixed byte length.
type Attribute struct {
	Name       string
	Type       DataType
	TypeLength int
}

// Schema is an ordered list of attributes plus the subset forming the key.
// It is immutable once created.
type Schema struct {
	Attrs   []Attribute
	KeyAttr []int
}

// CreateSchema builds a Schema from parallel attribute slices and a key
// index list, mirroring the original source's createSchema(numAttr,
// attrNames, dataTypes, typeLength, keySize, keys).
func CreateSchema(names []string, types []DataType, typeLengths []int, keyAttrs []int) (*Schema, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: schema must declare at least one attribute", ErrParameter)
	}
	if len(names) != len(types) || len(names) != len(typeLengths) {
		return nil, fmt.Errorf("%w: names/types/typeLengths length mismatch", ErrParameter)
	}
	attrs := make([]Attribute, len(names))
	for i := range names {
		if types[i] == String && typeLengths[i] <= 0 {
			return nil, fmt.Errorf("%w: STRING attribute %q needs a positive typeLength", ErrParameter, names[i])
		}
		attrs[i] = Attribute{Name: names[i], Type: types[i], TypeLength: typeLengths[i]}
	}
	keys := make([]int, len(keyAttrs))
	copy(keys, keyAttrs)
	return &Schema{Attrs: attrs, KeyAttr: keys}, nil
}

// RecordSize is the fixed byte length of a record payload under this
// schema: the sum of every attribute's width, mirroring the original
// source's getRecordSizeHelper.
func (s *Schema) RecordSize() int {
	size := 0
	for _, a := range s.Attrs {
		size += a.Type.width(a.TypeLength)
	}
	return size
}

// AttrOffset returns the byte offset of attribute i within a record
// payload: the prefix sum of the widths of attributes before it.
func (s *Schema) AttrOffset(i int) int {
	offset := 0
	for _, a := range s.Attrs[:i] {
		offset += a.Type.width(a.TypeLength)
	}
	return offset
}

// NumAttrs returns the number of attributes in the schema.
func (s *Schema) NumAttrs() int { return len(s.Attrs) }
