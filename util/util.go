/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Package util holds small string/path helpers shared by classloader
// and cmd/jrm, grounded on the teacher's util package of the same name.
package util

import (
	"os"
	"strings"
)

// ConvertToPlatformPathSeparators turns a binary class name
// ("java/lang/String") into a platform-correct relative path
// ("java/lang/String" on Unix, "java\lang\String" on Windows).
func ConvertToPlatformPathSeparators(name string) string {
	if os.PathSeparator == '/' {
		return name
	}
	return strings.ReplaceAll(name, "/", string(os.PathSeparator))
}

// ConvertClassFilenameToInternalFormat strips a ".class" suffix and
// normalizes path separators back to "/" so a filesystem-sourced class
// name matches one decoded out of a constant pool.
func ConvertClassFilenameToInternalFormat(filename string) string {
	name := strings.TrimSuffix(filename, ".class")
	return strings.ReplaceAll(name, string(os.PathSeparator), "/")
}

// ConvertInternalClassNameToFilename appends ".class" and converts "/"
// into the OS path separator so a binary name can be joined onto a
// classpath root.
func ConvertInternalClassNameToFilename(binaryName string) string {
	return ConvertToPlatformPathSeparators(binaryName) + ".class"
}
