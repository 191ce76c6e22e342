/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import "testing"

func TestModifiedUTF8RoundTrip(t *testing.T) {
	cases := []string{"hello", "java/lang/Object", "", "café"}
	for _, s := range cases {
		encoded := encodeModifiedUTF8(s)
		decoded, err := decodeModifiedUTF8(encoded)
		if err != nil {
			t.Fatalf("decode(encode(%q)): unexpected error: %v", s, err)
		}
		if decoded != s {
			t.Errorf("round trip %q: got %q", s, decoded)
		}
	}
}

func TestModifiedUTF8EncodesNullAsTwoBytes(t *testing.T) {
	encoded := encodeModifiedUTF8("a\x00b")
	want := []byte{'a', 0xC0, 0x80, 'b'}
	if len(encoded) != len(want) {
		t.Fatalf("encoded length = %d, want %d", len(encoded), len(want))
	}
	for i := range want {
		if encoded[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, encoded[i], want[i])
		}
	}
}

func TestModifiedUTF8RejectsRawNull(t *testing.T) {
	if _, err := decodeModifiedUTF8([]byte{0x00}); err == nil {
		t.Errorf("expected error decoding a raw 0x00 byte")
	}
}

func TestModifiedUTF8RejectsHighBytes(t *testing.T) {
	if _, err := decodeModifiedUTF8([]byte{0xF0, 0x80, 0x80, 0x80}); err == nil {
		t.Errorf("expected error decoding a byte in 0xF0..0xFF")
	}
}

func TestModifiedUTF8RejectsTruncatedSequence(t *testing.T) {
	if _, err := decodeModifiedUTF8([]byte{0xC0}); err == nil {
		t.Errorf("expected error for a truncated two-byte sequence")
	}
}
