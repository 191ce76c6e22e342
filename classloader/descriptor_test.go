/*
 * jrm - a minimal JVM-style runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classloader

import (
	"strings"
	"testing"
)

// TestFieldDescriptorRoundTrip is spec.md §8 scenario 3's valid cases.
func TestFieldDescriptorRoundTrip(t *testing.T) {
	// 'V' is only legal as a method return type, not a field descriptor
	// (ParseFieldDescriptor has no way to reach it via parseOneType's
	// switch), so it's covered by TestMethodDescriptorParsing instead.
	cases := []string{"[[I", "[Ljava/lang/String;", "Lcom/x/Y$Inner;", "Z"}
	for _, desc := range cases {
		typ, err := ParseFieldDescriptor(desc)
		if err != nil {
			t.Fatalf("ParseFieldDescriptor(%q): unexpected error: %v", desc, err)
		}
		if got := FormatFieldDescriptor(typ); got != desc {
			t.Errorf("round trip %q: got %q", desc, got)
		}
	}
}

// TestFieldDescriptorRejectsInvalid is spec.md §8 scenario 3's invalid cases.
func TestFieldDescriptorRejectsInvalid(t *testing.T) {
	invalid := []string{
		"M",
		strings.Repeat("[", 256) + "I",
		"Ljava/lang/Object", // missing ';'
	}
	for _, desc := range invalid {
		if _, err := ParseFieldDescriptor(desc); err == nil {
			t.Errorf("ParseFieldDescriptor(%q): expected error", desc)
		}
	}
}

func TestFieldDescriptorRejectsTrailingData(t *testing.T) {
	if _, err := ParseFieldDescriptor("Ljava/lang/Object;;"); err == nil {
		t.Errorf("expected error for trailing data after a complete descriptor")
	}
}

// TestMethodDescriptorParsing is spec.md §8 scenario 4.
func TestMethodDescriptorParsing(t *testing.T) {
	sig, err := ParseMethodDescriptor("(I)V")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.Params) != 1 || FormatFieldDescriptor(sig.Params[0]) != "I" || FormatFieldDescriptor(sig.Return) != "V" {
		t.Fatalf("(I)V parsed as %+v", sig)
	}

	sig, err = ParseMethodDescriptor("()V")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig.Params) != 0 || FormatFieldDescriptor(sig.Return) != "V" {
		t.Fatalf("()V parsed as %+v", sig)
	}

	sig, err = ParseMethodDescriptor("(LX;FI[Z)J")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"LX;", "F", "I", "[Z"}
	if len(sig.Params) != len(want) {
		t.Fatalf("param count = %d, want %d", len(sig.Params), len(want))
	}
	for i, w := range want {
		if got := FormatFieldDescriptor(sig.Params[i]); got != w {
			t.Errorf("param %d = %q, want %q", i, got, w)
		}
	}
	if FormatFieldDescriptor(sig.Return) != "J" {
		t.Errorf("return = %q, want J", FormatFieldDescriptor(sig.Return))
	}
}

func TestMethodDescriptorRejectsVoidParam(t *testing.T) {
	if _, err := ParseMethodDescriptor("(V)V"); err == nil {
		t.Errorf("expected error for 'V' used as a parameter type")
	}
}
