/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

// ParserContext is the state later decode steps depend on but don't
// receive directly from the wire: the constant pool being built (so a
// constant-index-checked field can be validated the instant it's
// read), the valid index range that pool implies, and the most
// recently announced count (set by "read a count" and consumed by
// "read that many items"), per spec.md §4.4/§9. DecodeClassFile
// creates one per decode and uses it for the this_class, super_class
// and interface index checks and the interface/field/method counts; the
// field, method and attribute decoders are not passed the context and
// take the constant pool directly. It is never kept in a global or
// thread-local, so decoding two class files concurrently never
// cross-contaminates.
type ParserContext struct {
	Pool    *ConstantPool
	CPCount int

	// Count holds the most recently read "N follows" value, the way
	// interfaceCount/fieldCount/methodCount are each read once and then
	// drive the next fixed-size loop.
	Count int
}

// CheckIndex validates that idx lies in 1..CPCount, the
// constant-index-check every Class/Utf8/NameAndType/*Ref field needs
// (spec.md §3 "ConstantPool invariants").
func (pc *ParserContext) CheckIndex(idx int) error {
	if idx < 1 || idx >= pc.CPCount {
		return indexRangeError(idx, pc.CPCount)
	}
	return nil
}
