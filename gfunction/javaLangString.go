/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"fmt"
	"strings"

	"jrm/frame"
	"jrm/object"
	"jrm/types"
)

func loadLangString() {
	MethodSignatures["java/lang/String.intern()Ljava/lang/String;"] = GMeth{
		ParamSlots: 1,
		GFunction:  stringIntern,
	}
}

// "java/lang/String.intern()Ljava/lang/String;": resolves this
// String instance's backing content through the heap and returns
// the canonical interned reference for it, per JVMS §5.1.
func stringIntern(ctx *Context, params []frame.Slot) (*frame.Slot, error) {
	this := params[0].AsRef()
	inst, ok := ctx.Heap.GetInstance(this)
	if !ok {
		return nil, fmt.Errorf("String.intern: this (ref %d) is not a live instance", this)
	}

	valueField, ok := inst.Fields["value"]
	if !ok {
		return nil, fmt.Errorf("String.intern: instance has no 'value' field")
	}
	arr, ok := ctx.Heap.GetArray(valueField.Value.Ref)
	if !ok {
		return nil, fmt.Errorf("String.intern: 'value' field is not a live array")
	}

	content := decodeStringContent(arr)
	result := frame.FromRef(ctx.Strings.Intern(content))
	return &result, nil
}

// decodeStringContent reads a String's backing array back into a Go
// string: a Latin-1 array holds one byte per code point, a UTF-16
// array one Java char per code unit (no surrogate-pair combining,
// matching this runtime's basic-multilingual-plane scope).
func decodeStringContent(arr *object.Array) string {
	var sb strings.Builder
	for _, v := range arr.Elements {
		if types.Kind(arr.ElemType.Kind) == types.Char {
			sb.WriteRune(rune(v.Char))
		} else {
			sb.WriteRune(rune(uint8(v.Byte)))
		}
	}
	return sb.String()
}
