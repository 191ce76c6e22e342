/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package excNames is a flat table of JVM exception/error binary class
// names, named the way the teacher's excNames package is: the core and
// the native hooks both need the same strings, so they live in one leaf
// package neither side needs to duplicate.
package excNames

const (
	ClassNotFoundException         = "java/lang/ClassNotFoundException"
	NoClassDefFoundError           = "java/lang/NoClassDefFoundError"
	ClassFormatError               = "java/lang/ClassFormatError"
	UnsupportedClassVersionError   = "java/lang/UnsupportedClassVersionError"
	NegativeArraySizeException     = "java/lang/NegativeArraySizeException"
	NullPointerException           = "java/lang/NullPointerException"
	ArrayIndexOutOfBoundsException = "java/lang/ArrayIndexOutOfBoundsException"
	StackOverflowError             = "java/lang/StackOverflowError"
	VirtualMachineError            = "java/lang/VirtualMachineError"
	NoSuchMethodError              = "java/lang/NoSuchMethodError"
	NoSuchFieldError               = "java/lang/NoSuchFieldError"
	IllegalArgumentException       = "java/lang/IllegalArgumentException"
	UnsupportedOperationException  = "java/lang/UnsupportedOperationException"
)
