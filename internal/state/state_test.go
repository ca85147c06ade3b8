package state

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get(KeyToolbarPosition); err != nil || ok {
		t.Fatalf("empty get ok=%v err=%v", ok, err)
	}
	if err := s.Set(KeyToolbarPosition, `{"x":1,"y":2}`); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyToolbarPosition, `{"x":3,"y":4}`); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(KeyToolbarPosition)
	if err != nil || !ok || v != `{"x":3,"y":4}` {
		t.Errorf("get = %q %v %v", v, ok, err)
	}

	if err := s.Delete(KeyToolbarPosition); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(KeyToolbarPosition); ok {
		t.Error("key survived delete")
	}
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := SetBool(s, KeyAllowOffscreen, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if v, _, _ := s.Get(KeyAllowOffscreen); v != "true" {
		t.Errorf("allowOffscreen = %q, want \"true\"", v)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestBool(t *testing.T) {
	m := NewMemory()
	if Bool(m, KeyAllowOffscreen, false) {
		t.Error("absent key should use default")
	}
	_ = m.Set(KeyAllowOffscreen, "garbage")
	if !Bool(m, KeyAllowOffscreen, true) {
		t.Error("invalid value should use default")
	}
	_ = SetBool(m, KeyAllowOffscreen, false)
	if v, _, _ := m.Get(KeyAllowOffscreen); v != "false" {
		t.Errorf("stored %q", v)
	}
	if Bool(m, KeyAllowOffscreen, true) {
		t.Error("stored false read as true")
	}
}
