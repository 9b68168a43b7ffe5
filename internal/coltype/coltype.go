// Package coltype resolves the closed set of column element type names
// ("int", "long", "float", "double", "string") into the static Go type that
// backs them, so that segment and operator code can be written once per
// element type and re-specialised at runtime from a schema string.
//
// This mirrors the teacher's string-key -> constructor registries (e.g.
// chunk.ManagerFactory, resolved by a type name in a params map) but
// resolves to a static type parameter instead of a value, since the
// element type here drives which ValueSegment[T]/DictionarySegment[T]
// instantiation to use.
package coltype

import "fmt"

// Name is one of the recognised column element type names.
type Name string

const (
	Int    Name = "int"
	Long   Name = "long"
	Float  Name = "float"
	Double Name = "double"
	String Name = "string"
)

// ErrUnknownType is returned when a type name is not in the recognised alphabet.
var ErrUnknownType = fmt.Errorf("coltype: unknown type")

// Valid reports whether name is one of the recognised column type names.
func Valid(name string) bool {
	switch Name(name) {
	case Int, Long, Float, Double, String:
		return true
	default:
		return false
	}
}

// Dispatch invokes the appropriate branch of fn for the static Go type that
// backs name, returning ErrUnknownType wrapped with name if it is not
// recognised. fn receives zero values only to pin down the static type via
// type inference at the call site; dispatch never allocates based on the
// zero value.
//
// Generic code that needs to run one algorithm per element type calls this
// once, then works against the passed-in zero value's type:
//
//	err := coltype.Dispatch(typeName, coltype.Funcs{
//	    Int:    func(int32) error { ... },
//	    Long:   func(int64) error { ... },
//	    Float:  func(float32) error { ... },
//	    Double: func(float64) error { ... },
//	    String: func(string) error { ... },
//	})
type Funcs struct {
	Int    func(int32) error
	Long   func(int64) error
	Float  func(float32) error
	Double func(float64) error
	String func(string) error
}

// Dispatch calls the Funcs field matching typeName with its type's zero value.
func Dispatch(typeName string, fn Funcs) error {
	switch Name(typeName) {
	case Int:
		return fn.Int(0)
	case Long:
		return fn.Long(0)
	case Float:
		return fn.Float(0)
	case Double:
		return fn.Double(0)
	case String:
		return fn.String("")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
}
