package messages

import (
	"strings"
	"testing"
)

func TestValidContent(t *testing.T) {
	if !ValidContent("running late") {
		t.Fatal("normal message should pass")
	}
	if ValidContent("") {
		t.Fatal("empty should fail")
	}
	if ValidContent("   \n\t") {
		t.Fatal("whitespace-only should fail")
	}
	if ValidContent(strings.Repeat("a", MaxContentLen+1)) {
		t.Fatal("oversized should fail")
	}
	if !ValidContent(strings.Repeat("a", MaxContentLen)) {
		t.Fatal("exactly max should pass")
	}
}
