/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import "jrm/frame"

func loadLangThread() {
	MethodSignatures["java/lang/Thread.registerNatives()V"] = GMeth{
		ParamSlots: 0,
		GFunction:  justReturn,
	}

	MethodSignatures["java/lang/Thread.currentThread()Ljava/lang/Thread;"] = GMeth{
		ParamSlots: 0,
		GFunction:  threadCurrentThread,
	}
}

// currentThreadRef is a fixed, nonzero pseudo-reference standing in
// for the single main Thread object this runtime ever exposes to
// Java code (spec.md's single-Thread-per-execution-context scope; a
// Thread class with real scheduling is out of scope per §1).
const currentThreadRef = 1

// "java/lang/Thread.currentThread()Ljava/lang/Thread;"
func threadCurrentThread(ctx *Context, params []frame.Slot) (*frame.Slot, error) {
	result := frame.FromRef(currentThreadRef)
	return &result, nil
}
