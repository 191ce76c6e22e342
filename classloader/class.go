/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"

	"jrm/types"
)

// polymorphicSignatureAnnotation is the annotation descriptor that
// marks a native method as a signature-polymorphic call site (JVMS
// §2.9.3), e.g. java/lang/invoke/MethodHandle.invoke.
const polymorphicSignatureAnnotation = "Ljava/lang/invoke/MethodHandle$PolymorphicSignature;"

// MethodKind distinguishes the three ways the interpreter dispatches a
// method, per spec.md §4.6 "MethodId variants": an ordinary call
// resolved by name+descriptor, <init>/<clinit> initializers that
// never participate in overload resolution, and the signature-
// polymorphic natives whose actual parameter types are supplied by
// the call site rather than the declared descriptor.
type MethodKind int

const (
	MethodCommon MethodKind = iota
	MethodInit
	MethodClinit
	MethodPolymorphic
)

// MethodId is the resolved identity of a method: everything needed to
// look it up in a MethodArea or a native GMeth table without
// re-walking the constant pool.
type MethodId struct {
	ClassName  string
	Name       string
	Descriptor string
	Kind       MethodKind
}

// Field is a post-decode field: resolved name/descriptor strings and
// access flags, with the parsed Type a heap field's zero value is
// chosen from.
type Field struct {
	Name        string
	Descriptor  string
	Type        types.Type
	AccessFlags FieldAccessFlags
}

// Method is a post-decode method: resolved identity plus its Code
// attribute, if any (abstract and native methods have none).
type Method struct {
	Id          MethodId
	Signature   MethodDescriptor
	AccessFlags MethodAccessFlags
	Code        *CodeAttribute
}

func (m *Method) IsStatic() bool   { return m.AccessFlags.Has(MethodStatic) }
func (m *Method) IsNative() bool   { return m.AccessFlags.Has(MethodNative) }
func (m *Method) IsAbstract() bool { return m.AccessFlags.Has(MethodAbstract) }

// Class is the fully resolved, name-based form of a class: what
// MethodArea stores and what the interpreter's frame pushes reference.
// Unlike ParsedClass, nothing here still points into a ConstantPool
// index — every reference has been followed to its string/value once,
// at load time, the way the teacher's convertToPostableClass turns a
// wire-level ParsedClass into a postable Klass.
type Class struct {
	Name       string
	SuperName  string // "" only for java/lang/Object
	Interfaces []string

	AccessFlags ClassAccessFlags
	SourceFile  string

	Fields  []Field
	Methods []Method

	ConstantPool *ConstantPool

	// ClinitState tracks java/lang/Object-style lazy class
	// initialization (spec.md §4.6): NoClinit if the class has no
	// <clinit>, otherwise one of ClInitNotRun/Running/Run.
	ClinitState int
}

// GetMethod returns the method matching name+descriptor, or false if
// this class declares no such method (inherited lookup is the
// MethodArea's job, not Class's).
func (c *Class) GetMethod(name, descriptor string) (*Method, bool) {
	for i := range c.Methods {
		if c.Methods[i].Id.Name == name && c.Methods[i].Id.Descriptor == descriptor {
			return &c.Methods[i], true
		}
	}
	return nil, false
}

// GetField returns the field matching name, or false if undeclared
// (field hiding/shadowing across superclasses is resolved by whoever
// walks the Class chain, not here).
func (c *Class) GetField(name string) (*Field, bool) {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

// BuildClass resolves a ParsedClass's constant-pool indexes into the
// name-based Class the rest of the runtime consumes. It is the single
// point where "index into this class's constant pool" stops being a
// valid way to refer to a name.
func BuildClass(pc *ParsedClass) (*Class, error) {
	cp := pc.ConstantPool

	name, err := cp.GetClassName(int(pc.ThisClassIndex))
	if err != nil {
		return nil, err
	}

	var superName string
	if pc.SuperClassIndex != 0 {
		superName, err = cp.GetClassName(int(pc.SuperClassIndex))
		if err != nil {
			return nil, err
		}
	} else if name != types.ObjectBinaryName {
		return nil, cfe(fmt.Sprintf("class %q has no superclass but is not %s", name, types.ObjectBinaryName))
	}

	interfaces := make([]string, 0, len(pc.InterfaceIndexes))
	for _, idx := range pc.InterfaceIndexes {
		ifaceName, err := cp.GetClassName(int(idx))
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, ifaceName)
	}

	fields := make([]Field, 0, len(pc.Fields))
	for _, pf := range pc.Fields {
		f, err := buildField(cp, pf)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	methods := make([]Method, 0, len(pc.Methods))
	clinitState := types.NoClinit
	for _, pm := range pc.Methods {
		m, err := buildMethod(cp, name, pm)
		if err != nil {
			return nil, err
		}
		if m.Id.Kind == MethodClinit {
			clinitState = types.ClInitNotRun
		}
		methods = append(methods, m)
	}

	sourceFile := ""
	for _, a := range pc.Attributes {
		if sf, ok := a.(SourceFileAttribute); ok {
			sourceFile, err = cp.GetUtf8(int(sf.SourceFileIndex))
			if err != nil {
				return nil, err
			}
		}
	}

	return &Class{
		Name:         name,
		SuperName:    superName,
		Interfaces:   interfaces,
		AccessFlags:  pc.AccessFlags,
		SourceFile:   sourceFile,
		Fields:       fields,
		Methods:      methods,
		ConstantPool: cp,
		ClinitState:  clinitState,
	}, nil
}

func buildField(cp *ConstantPool, pf ParsedField) (Field, error) {
	name, err := cp.GetUtf8(int(pf.NameIndex))
	if err != nil {
		return Field{}, err
	}
	descStr, err := cp.GetUtf8(int(pf.DescIndex))
	if err != nil {
		return Field{}, err
	}
	t, err := ParseFieldDescriptor(descStr)
	if err != nil {
		return Field{}, cfe(fmt.Sprintf("field %q: %s", name, err))
	}
	return Field{Name: name, Descriptor: descStr, Type: t, AccessFlags: pf.AccessFlags}, nil
}

func buildMethod(cp *ConstantPool, className string, pm ParsedMethod) (Method, error) {
	name, err := cp.GetUtf8(int(pm.NameIndex))
	if err != nil {
		return Method{}, err
	}
	descStr, err := cp.GetUtf8(int(pm.DescIndex))
	if err != nil {
		return Method{}, err
	}
	sig, err := ParseMethodDescriptor(descStr)
	if err != nil {
		return Method{}, cfe(fmt.Sprintf("method %q: %s", name, err))
	}

	kind := MethodCommon
	switch name {
	case "<init>":
		kind = MethodInit
	case "<clinit>":
		kind = MethodClinit
	default:
		if pm.AccessFlags.Has(MethodNative) && hasPolymorphicSignature(cp, pm.Attributes) {
			kind = MethodPolymorphic
		}
	}

	var code *CodeAttribute
	for _, a := range pm.Attributes {
		if c, ok := a.(CodeAttribute); ok {
			cc := c
			code = &cc
		}
	}
	if code == nil && !pm.AccessFlags.Has(MethodAbstract) && !pm.AccessFlags.Has(MethodNative) {
		return Method{}, cfe(fmt.Sprintf("method %q has no Code attribute but is neither abstract nor native", name))
	}

	return Method{
		Id:          MethodId{ClassName: className, Name: name, Descriptor: descStr, Kind: kind},
		Signature:   sig,
		AccessFlags: pm.AccessFlags,
		Code:        code,
	}, nil
}

// NewTestClassWithConstants builds a minimal Class around a
// caller-supplied constant pool, bypassing DecodeClassFile/BuildClass
// entirely. It exists so other packages' tests (thread's dispatch
// tests in particular) can exercise constant-pool-driven behavior
// like ldc without constructing a well-formed class-file byte stream
// for every case.
func NewTestClassWithConstants(name, superName string, entries []Constant) *Class {
	return &Class{
		Name:         name,
		SuperName:    superName,
		ConstantPool: &ConstantPool{entries: entries},
	}
}

// hasPolymorphicSignature reports whether pm carries a
// RuntimeVisibleAnnotations attribute naming
// MethodHandle$PolymorphicSignature, per JVMS §5.4.3.3's native
// signature-polymorphic method rule (spec.md §4.6).
func hasPolymorphicSignature(cp *ConstantPool, attrs []Attribute) bool {
	for _, a := range attrs {
		rva, ok := a.(RuntimeVisibleAnnotationsAttribute)
		if !ok {
			continue
		}
		for _, ann := range rva.Annotations {
			typeName, err := cp.GetUtf8(int(ann.TypeIndex))
			if err == nil && typeName == polymorphicSignatureAnnotation {
				return true
			}
		}
	}
	return false
}
