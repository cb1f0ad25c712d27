package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"logo.png":            "logo.png",
		"../../etc/passwd":    "passwd",
		"my photo (1).jpg":    "my_photo_1_.jpg",
		`C:\Users\me\pic.gif`: "pic.gif",
		"...":                 "file",
	}
	for in, want := range cases {
		if got := SafeName(in); got != want {
			t.Errorf("SafeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueName(t *testing.T) {
	a := UniqueName("college_Acme", "logo.png")
	b := UniqueName("college_Acme", "logo.png")
	if a == b {
		t.Error("unique names must differ")
	}
	if !strings.HasPrefix(a, "college_Acme_") || !strings.HasSuffix(a, "_logo.png") {
		t.Errorf("unexpected name %q", a)
	}
}

func TestCheckImageAndDocument(t *testing.T) {
	if err := CheckImage("a.PNG"); err != nil {
		t.Errorf("png should be an image: %v", err)
	}
	if err := CheckImage("a.pdf"); err != ErrUnsupportedType {
		t.Errorf("pdf is not an image, got %v", err)
	}
	if err := CheckDocument("a.pdf"); err != nil {
		t.Errorf("pdf should be a document: %v", err)
	}
	if err := CheckDocument("a.exe"); err != ErrUnsupportedType {
		t.Errorf("exe is not a document, got %v", err)
	}
}

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	ref, err := l.Save(context.Background(), "photo", "me.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/photo_") {
		t.Fatalf("unexpected ref %q", ref)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/"))
	data, err := os.ReadFile(stored)
	if err != nil || string(data) != "jpeg-bytes" {
		t.Fatalf("stored file mismatch: %q, %v", data, err)
	}

	if err := l.Delete(context.Background(), ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}

	// second delete and foreign refs are no-ops
	if err := l.Delete(context.Background(), ref); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
	if err := l.Delete(context.Background(), "https://cdn.example.com/x.png"); err != nil {
		t.Errorf("foreign delete: %v", err)
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/college-erp/logo_ab12.png": "college-erp/logo_ab12",
		"https://res.cloudinary.com/demo/image/upload/college-erp/x.jpg":               "college-erp/x",
		"/uploads/local.png": "",
	}
	for in, want := range cases {
		if got := PublicIDFromURL(in); got != want {
			t.Errorf("PublicIDFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}
