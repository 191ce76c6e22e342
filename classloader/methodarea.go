/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"fmt"
	"os"
	"sync"

	"jrm/globals"
	"jrm/trace"
	"jrm/util"
)

// MethodArea is the single shared table of loaded classes, protected
// by one mutex the way the teacher's methodarea guards its classes
// map: every load goes through LoadClass, which checks the cache
// before doing any I/O, so the area only ever grows and a name is
// installed at most once (spec.md §4.7 "method area"). The lock is not
// held while a class is read and decoded, so two concurrent first loads
// of one name may both decode it; the first to install wins and the
// other returns that installed Class.
type MethodArea struct {
	mu      sync.Mutex
	classes map[string]*Class
}

func NewMethodArea() *MethodArea {
	return &MethodArea{classes: make(map[string]*Class)}
}

// Get returns an already-loaded class without touching any loader, or
// false if it hasn't been loaded yet.
func (ma *MethodArea) Get(name string) (*Class, bool) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	c, ok := ma.classes[name]
	return c, ok
}

// Install inserts an already-built Class directly into the cache,
// bypassing LoadClass's resource lookup. This is how a bootstrap-only
// synthetic class (or a test fixture) enters the method area without
// a backing .class file on disk.
func (ma *MethodArea) Install(cls *Class) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.classes[cls.Name] = cls
}

// LoadClass resolves name to a *Class, loading and linking it (and,
// transitively, its superclass chain) on first reference. The search
// order mirrors the teacher's LoadClassFromNameOnly: first the
// bootstrap resource reader configured on globals.Globals (embedded
// or synthetic classes), then the classpath directories on disk. A
// class not found by either path is a ClassNotFoundError, never a nil
// return with no error (spec.md §7).
func (ma *MethodArea) LoadClass(name string) (*Class, error) {
	ma.mu.Lock()
	if c, ok := ma.classes[name]; ok {
		ma.mu.Unlock()
		return c, nil
	}
	ma.mu.Unlock()

	raw, err := ma.readClassBytes(name)
	if err != nil {
		return nil, err
	}

	parsed, err := DecodeClassFile(raw)
	if err != nil {
		return nil, err
	}
	cls, err := BuildClass(parsed)
	if err != nil {
		return nil, err
	}
	if cls.Name != name {
		return nil, cfe(fmt.Sprintf("class file for %q actually declares %q", name, cls.Name))
	}

	ma.mu.Lock()
	if existing, ok := ma.classes[name]; ok {
		ma.mu.Unlock()
		return existing, nil
	}
	ma.classes[name] = cls
	ma.mu.Unlock()

	trace.Trace("loaded class " + name)

	if cls.SuperName != "" {
		if _, err := ma.LoadClass(cls.SuperName); err != nil {
			return nil, err
		}
	}
	for _, iface := range cls.Interfaces {
		if _, err := ma.LoadClass(iface); err != nil {
			return nil, err
		}
	}

	return cls, nil
}

func (ma *MethodArea) readClassBytes(name string) ([]byte, error) {
	g := globals.GetGlobalRef()
	if g.FindResource != nil {
		if data, ok := g.FindResource(name); ok {
			return data, nil
		}
	}

	filename := util.ConvertInternalClassNameToFilename(name)
	for _, dir := range g.ClassPath {
		path := util.ConvertToPlatformPathSeparators(dir + "/" + filename)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
	}

	return nil, &ClassNotFoundError{Name: name}
}
