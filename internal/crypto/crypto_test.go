package crypto

import (
	"strings"
	"testing"
)

func testCipher(t *testing.T) *FieldCipher {
	t.Helper()
	c, err := New([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return c
}

func TestRoundTrip(t *testing.T) {
	c := testCipher(t)
	for _, plain := range []string{"9876543210", "+91 98765 43210", "x", strings.Repeat("long", 50)} {
		enc, err := c.Encrypt(plain)
		if err != nil {
			t.Fatalf("encrypt %q: %v", plain, err)
		}
		got, err := c.Decrypt(enc)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plain, err)
		}
		if got != plain {
			t.Fatalf("round trip: got %q want %q", got, plain)
		}
	}
}

func TestFreshIVPerCall(t *testing.T) {
	c := testCipher(t)
	a, _ := c.Encrypt("9876543210")
	b, _ := c.Encrypt("9876543210")
	if a == b {
		t.Fatal("two encryptions of the same plaintext must differ")
	}
}

func TestCiphertextFormat(t *testing.T) {
	c := testCipher(t)
	enc, err := c.Encrypt("9876543210")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(enc, ":") != 1 {
		t.Fatalf("want exactly one separator in %q", enc)
	}
}

func TestDecryptRejectsBadInput(t *testing.T) {
	c := testCipher(t)
	for _, bad := range []string{
		"",
		"noseparator",
		"aa:bb:cc",
		"zz:zz",
		"abcd:1234", // iv too short
	} {
		if _, err := c.Decrypt(bad); err == nil {
			t.Fatalf("decrypt(%q) should fail", bad)
		}
	}
}

func TestKeyLength(t *testing.T) {
	if _, err := New([]byte("short")); err == nil {
		t.Fatal("short key must be rejected")
	}
	if _, err := New(make([]byte, 33)); err == nil {
		t.Fatal("long key must be rejected")
	}
}
