/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "fmt"

// Attribute is any decoded class/field/method/Code attribute. Every
// attribute begins {name_idx:u16, length:u32, body[length]} (spec.md
// §4.3); the name, resolved through the constant pool, selects which
// concrete type decodeAttribute produces. An attribute whose name is
// not one of the recognized seven decodes to RawAttribute: its bytes
// are kept (so format-check-style round tripping stays possible) but
// never interpreted further, per spec.md's "permitted but not exposed".
type Attribute interface {
	AttributeName() string
}

type RawAttribute struct {
	Name string
	Data []byte
}

func (a RawAttribute) AttributeName() string { return a.Name }

type ExceptionTableEntry struct {
	StartPc   uint16
	EndPc     uint16
	HandlerPc uint16
	CatchType uint16 // 0 means "catch any"
}

type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []Attribute // Code's own nested attributes (e.g. LineNumberTable)
}

func (CodeAttribute) AttributeName() string { return "Code" }

type LineNumberEntry struct {
	StartPc    uint16
	LineNumber uint16
}

type LineNumberTableAttribute struct {
	Entries []LineNumberEntry
}

func (LineNumberTableAttribute) AttributeName() string { return "LineNumberTable" }

type LocalVariableEntry struct {
	StartPc    uint16
	Length     uint16
	NameIndex  uint16
	DescIndex  uint16
	SlotIndex  uint16
}

type LocalVariableTableAttribute struct {
	Entries []LocalVariableEntry
}

func (LocalVariableTableAttribute) AttributeName() string { return "LocalVariableTable" }

type SourceFileAttribute struct {
	SourceFileIndex uint16
}

func (SourceFileAttribute) AttributeName() string { return "SourceFile" }

type ExceptionsAttribute struct {
	ExceptionIndexes []uint16 // each a Class constant-pool index
}

func (ExceptionsAttribute) AttributeName() string { return "Exceptions" }

type DeprecatedAttribute struct{}

func (DeprecatedAttribute) AttributeName() string { return "Deprecated" }

// ElementValue is one {tag, value} pair inside an annotation, per
// JVMS §4.7.16.1. Exactly one of the payload fields is meaningful,
// selected by Tag — the "closed lookup map" spec.md §4.3 calls for.
type ElementValue struct {
	Tag byte

	ConstIndex uint16 // B,C,D,F,I,J,S,Z,s

	EnumTypeNameIndex  uint16 // e
	EnumConstNameIndex uint16

	ClassInfoIndex uint16 // c

	Annotation *Annotation // @

	Array []ElementValue // [
}

type AnnotationElementPair struct {
	NameIndex uint16
	Value     ElementValue
}

type Annotation struct {
	TypeIndex  uint16
	ElementPairs []AnnotationElementPair
}

type RuntimeVisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

func (RuntimeVisibleAnnotationsAttribute) AttributeName() string {
	return "RuntimeVisibleAnnotations"
}

// decodeAttributes reads `count` {name_idx, length, body} records in
// sequence, resolving each name via cp and dispatching to that name's
// layout reader (spec.md §4.3). The same reader serves class, field,
// method and nested Code attribute lists; it does not restrict which
// attribute names may appear in which list.
func decodeAttributes(r *ByteReader, cp *ConstantPool, count int) ([]Attribute, error) {
	out := make([]Attribute, 0, count)
	for i := 0; i < count; i++ {
		nameIdx, ok := r.ReadU16()
		if !ok {
			return nil, cfe("truncated attribute name index")
		}
		length, ok := r.ReadU32()
		if !ok {
			return nil, cfe("truncated attribute length")
		}
		name, err := cp.GetUtf8(int(nameIdx))
		if err != nil {
			return nil, err
		}

		bodyStart := r.Pos()
		attr, err := decodeOneAttribute(r, cp, name, int(length))
		if err != nil {
			return nil, err
		}
		consumed := r.Pos() - bodyStart
		if consumed != int(length) {
			return nil, cfe(fmt.Sprintf("attribute %q declared length %d but decoder consumed %d", name, length, consumed))
		}
		out = append(out, attr)
	}
	return out, nil
}

func decodeOneAttribute(r *ByteReader, cp *ConstantPool, name string, length int) (Attribute, error) {
	switch name {
	case "Code":
		return decodeCodeAttribute(r, cp)
	case "LineNumberTable":
		return decodeLineNumberTable(r)
	case "LocalVariableTable":
		return decodeLocalVariableTable(r)
	case "SourceFile":
		return decodeSourceFile(r)
	case "Exceptions":
		return decodeExceptions(r)
	case "Deprecated":
		if length != 0 {
			return nil, cfe("Deprecated attribute must have zero length")
		}
		return DeprecatedAttribute{}, nil
	case "RuntimeVisibleAnnotations":
		return decodeRuntimeVisibleAnnotations(r)
	default:
		data, ok := r.ReadBytes(length)
		if !ok {
			return nil, cfe("truncated attribute body for " + name)
		}
		return RawAttribute{Name: name, Data: data}, nil
	}
}

func decodeCodeAttribute(r *ByteReader, cp *ConstantPool) (Attribute, error) {
	maxStack, ok1 := r.ReadU16()
	maxLocals, ok2 := r.ReadU16()
	codeLength, ok3 := r.ReadU32()
	if !ok1 || !ok2 || !ok3 {
		return nil, cfe("truncated Code header")
	}
	code, ok := r.ReadBytes(int(codeLength))
	if !ok {
		return nil, cfe("truncated Code body")
	}

	excCount, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated exception_table_length")
	}
	excTable := make([]ExceptionTableEntry, 0, excCount)
	for i := uint16(0); i < excCount; i++ {
		startPc, o1 := r.ReadU16()
		endPc, o2 := r.ReadU16()
		handlerPc, o3 := r.ReadU16()
		catchType, o4 := r.ReadU16()
		if !o1 || !o2 || !o3 || !o4 {
			return nil, cfe("truncated exception table entry")
		}
		if endPc <= startPc {
			return nil, cfe("exception table entry has end_pc <= start_pc")
		}
		if int(handlerPc) >= len(code) {
			return nil, cfe("exception table entry has handler_pc outside code")
		}
		excTable = append(excTable, ExceptionTableEntry{
			StartPc: startPc, EndPc: endPc, HandlerPc: handlerPc, CatchType: catchType,
		})
	}

	attrCount, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated Code attributes_count")
	}
	nested, err := decodeAttributes(r, cp, int(attrCount))
	if err != nil {
		return nil, err
	}

	return CodeAttribute{
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Code:           code,
		ExceptionTable: excTable,
		Attributes:     nested,
	}, nil
}

func decodeLineNumberTable(r *ByteReader) (Attribute, error) {
	count, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated LineNumberTable count")
	}
	entries := make([]LineNumberEntry, 0, count)
	for i := uint16(0); i < count; i++ {
		startPc, o1 := r.ReadU16()
		line, o2 := r.ReadU16()
		if !o1 || !o2 {
			return nil, cfe("truncated LineNumberTable entry")
		}
		entries = append(entries, LineNumberEntry{StartPc: startPc, LineNumber: line})
	}
	return LineNumberTableAttribute{Entries: entries}, nil
}

func decodeLocalVariableTable(r *ByteReader) (Attribute, error) {
	count, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated LocalVariableTable count")
	}
	entries := make([]LocalVariableEntry, 0, count)
	for i := uint16(0); i < count; i++ {
		startPc, o1 := r.ReadU16()
		length, o2 := r.ReadU16()
		nameIdx, o3 := r.ReadU16()
		descIdx, o4 := r.ReadU16()
		slot, o5 := r.ReadU16()
		if !o1 || !o2 || !o3 || !o4 || !o5 {
			return nil, cfe("truncated LocalVariableTable entry")
		}
		entries = append(entries, LocalVariableEntry{
			StartPc: startPc, Length: length, NameIndex: nameIdx, DescIndex: descIdx, SlotIndex: slot,
		})
	}
	return LocalVariableTableAttribute{Entries: entries}, nil
}

func decodeSourceFile(r *ByteReader) (Attribute, error) {
	idx, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated SourceFile attribute")
	}
	return SourceFileAttribute{SourceFileIndex: idx}, nil
}

func decodeExceptions(r *ByteReader) (Attribute, error) {
	count, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated Exceptions count")
	}
	idxs := make([]uint16, 0, count)
	for i := uint16(0); i < count; i++ {
		idx, ok := r.ReadU16()
		if !ok {
			return nil, cfe("truncated Exceptions entry")
		}
		idxs = append(idxs, idx)
	}
	return ExceptionsAttribute{ExceptionIndexes: idxs}, nil
}

func decodeRuntimeVisibleAnnotations(r *ByteReader) (Attribute, error) {
	count, ok := r.ReadU16()
	if !ok {
		return nil, cfe("truncated RuntimeVisibleAnnotations count")
	}
	anns := make([]Annotation, 0, count)
	for i := uint16(0); i < count; i++ {
		a, err := decodeAnnotation(r)
		if err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return RuntimeVisibleAnnotationsAttribute{Annotations: anns}, nil
}

func decodeAnnotation(r *ByteReader) (Annotation, error) {
	typeIdx, ok := r.ReadU16()
	if !ok {
		return Annotation{}, cfe("truncated annotation type_index")
	}
	pairCount, ok := r.ReadU16()
	if !ok {
		return Annotation{}, cfe("truncated annotation pairs count")
	}
	pairs := make([]AnnotationElementPair, 0, pairCount)
	for i := uint16(0); i < pairCount; i++ {
		nameIdx, ok := r.ReadU16()
		if !ok {
			return Annotation{}, cfe("truncated element_name_index")
		}
		val, err := decodeElementValue(r)
		if err != nil {
			return Annotation{}, err
		}
		pairs = append(pairs, AnnotationElementPair{NameIndex: nameIdx, Value: val})
	}
	return Annotation{TypeIndex: typeIdx, ElementPairs: pairs}, nil
}

// decodeElementValue is the single source of truth for tag → kind
// (spec.md §4.3): every other piece of code that needs to know what an
// element-value tag means calls through here rather than re-switching.
func decodeElementValue(r *ByteReader) (ElementValue, error) {
	tag, ok := r.ReadU8()
	if !ok {
		return ElementValue{}, cfe("truncated element_value tag")
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's':
		idx, ok := r.ReadU16()
		if !ok {
			return ElementValue{}, cfe("truncated const_value_index")
		}
		return ElementValue{Tag: tag, ConstIndex: idx}, nil
	case 'e':
		typeIdx, ok1 := r.ReadU16()
		constIdx, ok2 := r.ReadU16()
		if !ok1 || !ok2 {
			return ElementValue{}, cfe("truncated enum_const_value")
		}
		return ElementValue{Tag: tag, EnumTypeNameIndex: typeIdx, EnumConstNameIndex: constIdx}, nil
	case 'c':
		idx, ok := r.ReadU16()
		if !ok {
			return ElementValue{}, cfe("truncated class_info_index")
		}
		return ElementValue{Tag: tag, ClassInfoIndex: idx}, nil
	case '@':
		nested, err := decodeAnnotation(r)
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, Annotation: &nested}, nil
	case '[':
		count, ok := r.ReadU16()
		if !ok {
			return ElementValue{}, cfe("truncated array_value count")
		}
		arr := make([]ElementValue, 0, count)
		for i := uint16(0); i < count; i++ {
			v, err := decodeElementValue(r)
			if err != nil {
				return ElementValue{}, err
			}
			arr = append(arr, v)
		}
		return ElementValue{Tag: tag, Array: arr}, nil
	default:
		return ElementValue{}, cfe(fmt.Sprintf("unknown element_value tag %q", tag))
	}
}
