/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"
	"strings"

	"jrm/types"
)

// ParseFieldDescriptor walks a field descriptor with a small
// hand-rolled DFA rather than a regexp, the way the teacher's
// formatCheck.go validates descriptors byte-by-byte. Grammar (JVMS
// §4.3.2):
//
//	FieldDescriptor  -> ArrayPrefix* (BaseType | ObjectType)
//	ObjectType       -> 'L' ClassName ';'
//
// Array dimensions are capped at types.MaxArrayDimensions (255),
// matching the JVMS bound on the number of leading '['.
func ParseFieldDescriptor(desc string) (types.Type, error) {
	t, rest, err := parseOneType(desc)
	if err != nil {
		return types.Type{}, err
	}
	if rest != "" {
		return types.Type{}, fmt.Errorf("descriptor %q has trailing data after a complete type", desc)
	}
	return t, nil
}

// parseOneType parses a single FieldDescriptor off the front of s and
// returns whatever is left unconsumed, so callers like
// ParseMethodDescriptor can call it in a loop.
func parseOneType(s string) (types.Type, string, error) {
	dims := 0
	for len(s) > 0 && s[0] == '[' {
		dims++
		s = s[1:]
		if dims > types.MaxArrayDimensions {
			return types.Type{}, "", fmt.Errorf("array descriptor exceeds %d dimensions", types.MaxArrayDimensions)
		}
	}
	if len(s) == 0 {
		return types.Type{}, "", fmt.Errorf("descriptor ends after array prefix with no element type")
	}

	var elem types.Type
	rest := s

	switch s[0] {
	case 'B':
		elem, rest = types.Type{Kind: int(types.Byte), BinaryName: "B"}, s[1:]
	case 'C':
		elem, rest = types.Type{Kind: int(types.Char), BinaryName: "C"}, s[1:]
	case 'D':
		elem, rest = types.Type{Kind: int(types.Double), BinaryName: "D"}, s[1:]
	case 'F':
		elem, rest = types.Type{Kind: int(types.Float), BinaryName: "F"}, s[1:]
	case 'I':
		elem, rest = types.Type{Kind: int(types.Int), BinaryName: "I"}, s[1:]
	case 'J':
		elem, rest = types.Type{Kind: int(types.Long), BinaryName: "J"}, s[1:]
	case 'S':
		elem, rest = types.Type{Kind: int(types.Short), BinaryName: "S"}, s[1:]
	case 'Z':
		elem, rest = types.Type{Kind: int(types.Boolean), BinaryName: "Z"}, s[1:]
	case 'L':
		semi := strings.IndexByte(s, ';')
		if semi < 0 {
			return types.Type{}, "", fmt.Errorf("object descriptor %q missing terminating ';'", s)
		}
		name := s[1:semi]
		if name == "" {
			return types.Type{}, "", fmt.Errorf("object descriptor has empty class name")
		}
		elem, rest = types.Type{Kind: int(types.Ref), BinaryName: name}, s[semi+1:]
	default:
		return types.Type{}, "", fmt.Errorf("unrecognized descriptor character %q", s[0])
	}

	if dims == 0 {
		return elem, rest, nil
	}
	t := elem
	for i := 0; i < dims; i++ {
		inner := t
		t = types.Type{Kind: int(types.Array), Elem: &inner}
	}
	return t, rest, nil
}

// MethodDescriptor is the parsed form of a method's '(...)X'
// signature: the parameter types in order, and the return type (Void
// for 'V').
type MethodDescriptor struct {
	Params []types.Type
	Return types.Type
}

// ParseMethodDescriptor parses "(ParamDescriptor*)ReturnDescriptor",
// where ReturnDescriptor is either 'V' or a FieldDescriptor. 'V' is
// only legal as the return type, never as a parameter (spec.md §8
// scenario 4).
func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if len(desc) < 2 || desc[0] != '(' {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q missing opening '('", desc)
	}
	s := desc[1:]

	var params []types.Type
	for len(s) > 0 && s[0] != ')' {
		if s[0] == 'V' {
			return MethodDescriptor{}, fmt.Errorf("method descriptor %q uses 'V' as a parameter type", desc)
		}
		t, rest, err := parseOneType(s)
		if err != nil {
			return MethodDescriptor{}, fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		params = append(params, t)
		s = rest
	}
	if len(s) == 0 || s[0] != ')' {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q missing closing ')'", desc)
	}
	s = s[1:]

	if s == "V" {
		return MethodDescriptor{Params: params, Return: types.Type{Kind: int(types.Void), BinaryName: "V"}}, nil
	}
	ret, rest, err := parseOneType(s)
	if err != nil {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q return type: %w", desc, err)
	}
	if rest != "" {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q has trailing data after return type", desc)
	}
	return MethodDescriptor{Params: params, Return: ret}, nil
}

// FormatFieldDescriptor re-emits a Type as its descriptor string,
// the inverse of ParseFieldDescriptor (parse followed by format yields
// the original descriptor).
func FormatFieldDescriptor(t types.Type) string {
	switch types.Kind(t.Kind) {
	case types.Array:
		return "[" + FormatFieldDescriptor(*t.Elem)
	case types.Ref:
		return "L" + t.BinaryName + ";"
	case types.Boolean:
		return "Z"
	case types.Byte:
		return "B"
	case types.Char:
		return "C"
	case types.Short:
		return "S"
	case types.Int:
		return "I"
	case types.Long:
		return "J"
	case types.Float:
		return "F"
	case types.Double:
		return "D"
	case types.Void:
		return "V"
	default:
		return "?"
	}
}
