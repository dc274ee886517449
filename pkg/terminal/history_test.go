package terminal

import "testing"

func TestHistoryWalk(t *testing.T) {
	h := NewHistory()
	for _, c := range []string{"a", "b", "c"} {
		h.Push(c)
	}

	var got []string
	for i := 0; i < 3; i++ {
		l, ok := h.Up()
		if !ok {
			t.Fatalf("Up %d: expected a line", i)
		}
		got = append(got, l)
	}
	for i := 0; i < 3; i++ {
		l, ok := h.Down()
		if !ok {
			t.Fatalf("Down %d: expected a line", i)
		}
		got = append(got, l)
	}

	want := []string{"c", "b", "a", "b", "c", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d: expected %q, got %q (all: %q)", i, want[i], got[i], got)
		}
	}
}

func TestHistoryClampsAtOldest(t *testing.T) {
	h := NewHistory()
	h.Push("only")
	for i := 0; i < 4; i++ {
		if l, _ := h.Up(); l != "only" {
			t.Fatalf("expected oldest entry, got %q", l)
		}
	}
}

func TestHistoryIdle(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Up(); ok {
		t.Fatalf("empty history should not recall anything")
	}
	h.Push("a")
	if _, ok := h.Down(); ok {
		t.Fatalf("Down while idle should leave the input alone")
	}
	h.Up()
	h.Push("b")
	if l, _ := h.Up(); l != "b" {
		t.Fatalf("push should reset the cursor, got %q", l)
	}
}

func TestHistoryRecent(t *testing.T) {
	h := NewHistory()
	h.Push("")
	for _, c := range []string{"1", "2", "3"} {
		h.Push(c)
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", h.Len())
	}
	got := h.Recent(2)
	if len(got) != 2 || got[0] != "3" || got[1] != "2" {
		t.Fatalf("unexpected recent entries %q", got)
	}
	if n := len(h.Recent(10)); n != 3 {
		t.Fatalf("expected all 3 entries, got %d", n)
	}
}
