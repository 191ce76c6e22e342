/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"strings"
	"testing"
)

// TestHeaderSanity is spec.md §8 scenario 1: magic and major version
// 0x34 (52, Java 8) are accepted, but the stream is truncated right
// after announcing cp_count, so decoding must fail, not panic.
func TestHeaderSanity(t *testing.T) {
	raw := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x34, 0x00, 0x01}
	_, err := DecodeClassFile(raw)
	if err == nil {
		t.Fatalf("expected a ParseError for truncated constant pool")
	}
	if !strings.Contains(err.Error(), "constant pool") {
		t.Errorf("error should mention the constant pool, got: %v", err)
	}
}

func TestBadMagicIsRejected(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x00, 0x00}
	_, err := DecodeClassFile(raw)
	if err == nil {
		t.Fatalf("expected a ParseError for bad magic")
	}
}

func TestUnsupportedMajorVersionIsRejected(t *testing.T) {
	raw := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x07, 0x00, 0x01}
	_, err := DecodeClassFile(raw)
	if err == nil {
		t.Fatalf("expected a ParseError for an unsupported major version")
	}
}

// TestThisClassIndexOutOfRange is spec.md §8 scenario 2.
func TestThisClassIndexOutOfRange(t *testing.T) {
	var buf []byte
	buf = append(buf, 0xCA, 0xFE, 0xBA, 0xBE) // magic
	buf = append(buf, 0x00, 0x00, 0x00, 0x34) // minor/major
	buf = append(buf, 0x00, 0x05)             // cp_count = 5
	buf = append(buf, TagUtf8, 0x00, 0x01, 'A')
	buf = append(buf, TagUtf8, 0x00, 0x01, 'B')
	buf = append(buf, TagUtf8, 0x00, 0x01, 'C')
	buf = append(buf, TagUtf8, 0x00, 0x01, 'D')
	buf = append(buf, 0x00, 0x00) // access_flags
	buf = append(buf, 0x00, 99)   // this_class = 99, out of range

	_, err := DecodeClassFile(buf)
	if err == nil {
		t.Fatalf("expected a ParseError for this_class out of range")
	}
	if !strings.Contains(err.Error(), "index 99 not in 1..5") {
		t.Errorf("error = %q, want it to contain \"index 99 not in 1..5\"", err.Error())
	}
}
