package extension

// FieldType enumerates the value types a namespace field can carry.
type FieldType string

// Namespace field types.
const (
	TypeText      FieldType = "text"
	TypeInteger   FieldType = "integer"
	TypeReal      FieldType = "real"
	TypeTimestamp FieldType = "timestamp"
	TypeGeometry  FieldType = "geometry"
)

// Field describes one property within a namespace schema.
type Field struct {
	Type     FieldType
	Index    bool
	Optional bool
}

// Schema describes the properties a namespace can report, so the host
// can provision index columns before any product is analyzed.
type Schema map[string]Field
