/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package globals is the process-wide, mutex-guarded singleton state
// jrm needs before a classloader.MethodArea exists: the bootstrap
// resource reader, the filesystem search path, and the accepted
// class-file version window. Grounded on the teacher's
// globals.GetGlobalRef() singleton.
package globals

import "sync"

// ResourceReader answers "given a class, return its bytes, or report
// absence". MethodArea calls it with the binary class name as is (e.g.
// "java/lang/Object"); it does not build a module-relative path such as
// "/java.base/java/lang/Object.class", so a reader backed by a module
// image maps the name to its module itself. It is the only way the core
// ever touches the bootstrap
// module image; the real image reader lives outside the core (spec.md
// §1's "out of scope" boundary) and is injected here.
type ResourceReader func(modulePath string) (data []byte, ok bool)

// Globals is the singleton the rest of the runtime reads through
// GetGlobalRef. Its zero value is usable; InitGlobals sets the
// defaults a fresh process needs.
type Globals struct {
	MinJavaVersion int
	MaxJavaVersion int // the JDK feature version, e.g. 17

	// MaxJavaVersionRaw is the class-file major_version encoding of
	// MaxJavaVersion (major_version = 44 + feature_version).
	MaxJavaVersionRaw int

	// ClassPath is the ordered list of filesystem roots the
	// MethodArea searches after the bootstrap resource reader draws
	// a blank.
	ClassPath []string

	// FindResource is consulted first on every class load.
	FindResource ResourceReader

	// StartingClass/StartingJar hold the CLI's starting class or jar;
	// cmd/jrm does not set them.
	StartingClass string
	StartingJar   string
}

var (
	mu      sync.Mutex
	current *Globals
)

// InitGlobals (re)creates the singleton with the default accepted
// version window (JVMS class-file major versions 45..70, i.e. up to
// Java 26) and an empty classpath. Tests call this to get a clean slate.
func InitGlobals() *Globals {
	g := &Globals{
		MinJavaVersion:    45,
		MaxJavaVersion:    26,
		MaxJavaVersionRaw: 70,
		ClassPath:         nil,
		FindResource:      func(string) ([]byte, bool) { return nil, false },
	}
	mu.Lock()
	current = g
	mu.Unlock()
	return g
}

// GetGlobalRef returns the process singleton, lazily creating it with
// defaults on first use.
func GetGlobalRef() *Globals {
	mu.Lock()
	g := current
	mu.Unlock()
	if g != nil {
		return g
	}
	return InitGlobals()
}
