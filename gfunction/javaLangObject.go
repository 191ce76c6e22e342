/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import "jrm/frame"

func loadLangObject() {
	MethodSignatures["java/lang/Object.<init>()V"] = GMeth{
		ParamSlots: 1,
		GFunction:  justReturn,
	}

	MethodSignatures["java/lang/Object.registerNatives()V"] = GMeth{
		ParamSlots: 0,
		GFunction:  justReturn,
	}

	MethodSignatures["java/lang/Object.hashCode()I"] = GMeth{
		ParamSlots: 1,
		GFunction:  objectHashCode,
	}
}

// "java/lang/Object.hashCode()I": identity hash from the object's own
// heap reference, since this runtime has no moving GC to invalidate
// it and the reference is already a stable, process-unique token.
func objectHashCode(ctx *Context, params []frame.Slot) (*frame.Slot, error) {
	this := params[0].AsRef()
	result := frame.FromInt32(int32(this))
	return &result, nil
}
