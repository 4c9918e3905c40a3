package asm

import "testing"

func TestSymbolTableInsertAndLookup(t *testing.T) {
	st := NewSymbolTable()
	if st.Contains("loop") {
		t.Fatal("empty table should not contain loop")
	}

	st.Insert(&Symbol{Name: "loop", Kind: SymbolLabel, Offset: 68, Resolved: true})
	if !st.Contains("loop") {
		t.Fatal("expected table to contain loop after Insert")
	}

	offset, ok := st.ValueOf("loop")
	if !ok || offset != 68 {
		t.Fatalf("ValueOf(loop) = %d, %v; want 68, true", offset, ok)
	}
}

func TestSymbolTableSetOffsetOnUnknownNameFails(t *testing.T) {
	st := NewSymbolTable()
	if st.SetOffset("missing", 0) {
		t.Fatal("SetOffset on an unknown symbol should report false")
	}
}

func TestSymbolTableSetOffsetResolvesUnresolvedEntry(t *testing.T) {
	st := NewSymbolTable()
	st.Insert(&Symbol{Name: "hello", Kind: SymbolLabel, Resolved: false})

	if _, ok := st.ValueOf("hello"); ok {
		t.Fatal("unresolved symbol should not resolve via ValueOf")
	}
	if !st.SetOffset("hello", 12) {
		t.Fatal("SetOffset should succeed for a known symbol")
	}
	offset, ok := st.ValueOf("hello")
	if !ok || offset != 12 {
		t.Fatalf("ValueOf(hello) after SetOffset = %d, %v; want 12, true", offset, ok)
	}
}

func TestSymbolTableNamesPreservesInsertionOrder(t *testing.T) {
	st := NewSymbolTable()
	st.Insert(&Symbol{Name: "b"})
	st.Insert(&Symbol{Name: "a"})

	names := st.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("expected insertion order [b a], got %v", names)
	}
}
