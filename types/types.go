/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package types holds the shared primitive aliases and the descriptor
// type algebra used by the classloader, object and thread packages.
// It exists to avoid import cycles: several packages need to refer to
// "the type of a Java value" without depending on each other.
package types

// JavaByte, JavaChar and JavaBool give array element storage a distinct
// Go type so that a []JavaByte can't be mixed up with a Go []byte that
// happens to hold unrelated data.
type (
	JavaByte = int8
	JavaChar = uint16
	JavaBool = int8
)

// Kind enumerates the members of the descriptor type algebra described
// in spec.md §3: Boolean | Byte | Char | Short | Int | Long | Float |
// Double | Void | Ref | Array.
type Kind int

const (
	Boolean Kind = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
	Ref
	Array
)

// MaxArrayDimensions is the cap on nested array descriptors ("[[[...I"),
// per the JVM class file format (u1 dimensions field tops out at 255).
const MaxArrayDimensions = 255

// Type is the parsed form of a field descriptor or part of a method
// signature. Only Ref and Array carry payload; the rest are pure tags.
type Type struct {
	Kind int

	// BinaryName, for Kind == Ref, is the slashed class name, without the
	// leading 'L' or trailing ';' (e.g. "java/lang/String"). For primitive
	// kinds the descriptor parser sets it to the one-letter descriptor
	// ("I", "Z", ...); for Array it is empty.
	BinaryName string

	// Elem is set only for Kind == Array: the element type one level in.
	Elem *Type
}

func (t Type) IsRef() bool   { return Kind(t.Kind) == Ref }
func (t Type) IsArray() bool { return Kind(t.Kind) == Array }

// String coder tags; stringpool stores a Java String as Latin-1 (coder 0)
// when every code point is below 256, and as UTF-16 (coder 1) otherwise.
const (
	StringCoderLatin1 = 0
	StringCoderUTF16  = 1
)

// ObjectBinaryName is the root of every class hierarchy; a class whose
// super_class constant-pool entry is 0 implicitly has this superclass.
const ObjectBinaryName = "java/lang/Object"

// InvalidStringIndex marks "no index" the way 0 marks "no object ref" in
// the heap.
const InvalidStringIndex = ^uint32(0)

// RefArrayPrefix and ArrayPrefix are the descriptor prefixes recognized when
// normalizing a class-reference string pulled out of the constant pool.
const (
	RefArrayPrefix = "[L"
	ArrayPrefix    = "["
)

// ClInit status codes for a loaded class, mirroring whether its static
// initializer has run yet.
const (
	NoClinit      = 0
	ClInitNotRun  = 1
	ClInitRunning = 2
	ClInitRun     = 3
)
