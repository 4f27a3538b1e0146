package lingo

import "testing"

func TestHashText(t *testing.T) {
	if HashText("Hello") != HashText("Hello") {
		t.Error("identical texts must hash identically")
	}
	if HashText("Hello") == HashText("World") {
		t.Error("distinct texts must hash differently")
	}
	if len(HashText("Hello")) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(HashText("Hello")))
	}
}

func TestHashText_TrimsWhitespace(t *testing.T) {
	if HashText("  Hello  ") != HashText("Hello") {
		t.Error("surrounding whitespace must not change the hash")
	}
	if HashText("Hello World") == HashText("HelloWorld") {
		t.Error("interior whitespace is significant")
	}
}

func TestInflightKey(t *testing.T) {
	base := inflightKey("Hello", "en", "hi", false)

	if inflightKey("Hello", "en", "hi", false) != base {
		t.Error("same request must produce the same key")
	}
	if inflightKey("Hello", "en", "as", false) == base {
		t.Error("different target languages must not coalesce")
	}
	if inflightKey("Hello", "hi", "hi", false) == base {
		t.Error("different source languages must not coalesce")
	}
	if inflightKey("Hello", "en", "hi", true) == base {
		t.Error("markup and plain requests for the same text must not coalesce")
	}
}
