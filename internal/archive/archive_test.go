package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	t.Run("corrupt archive", func(t *testing.T) {
		_, err := Open([]byte("not a zip"))
		if err == nil {
			t.Fatalf("expected error")
		}
		var archiveErr *ArchiveError
		if !errors.As(err, &archiveErr) {
			t.Fatalf("expected ArchiveError, got %v", err)
		}
	})

	t.Run("empty archive", func(t *testing.T) {
		data := buildZip(t, nil)
		r, err := Open(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(r.Entries()) != 0 {
			t.Fatalf("expected no entries, got %v", r.Entries())
		}
	})
}

func TestFindEntry(t *testing.T) {
	data := buildZip(t, map[string]string{
		"Sample Key/Data/Key.data": "inner",
		"Sample Key/Media/pic.jpg": "jpeg",
	})
	r, err := Open(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("exact path", func(t *testing.T) {
		if _, ok := r.FindEntry("Sample Key/Data/Key.data"); !ok {
			t.Fatalf("expected entry")
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		if _, ok := r.FindEntry("sample key/data/KEY.DATA"); !ok {
			t.Fatalf("expected case-insensitive hit")
		}
	})

	t.Run("backslash separators", func(t *testing.T) {
		if _, ok := r.FindEntry(`Sample Key\Media\pic.jpg`); !ok {
			t.Fatalf("expected separator-normalized hit")
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		if _, ok := r.FindEntry("nope.txt"); ok {
			t.Fatalf("expected miss")
		}
		_, err := r.ReadEntry("nope.txt")
		if !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})
}

func TestFindDirSuffix(t *testing.T) {
	t.Run("finds prefixed data dir", func(t *testing.T) {
		data := buildZip(t, map[string]string{
			"Sample Key/DATA/key.data": "x",
		})
		r, err := Open(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		prefix, ok := r.FindDirSuffix("data/")
		if !ok {
			t.Fatalf("expected data dir")
		}
		if prefix != "Sample Key/DATA/" {
			t.Fatalf("unexpected prefix: %q", prefix)
		}
	})

	t.Run("root level data dir", func(t *testing.T) {
		data := buildZip(t, map[string]string{"data/key.data": "x"})
		r, err := Open(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		prefix, ok := r.FindDirSuffix("data/")
		if !ok || prefix != "data/" {
			t.Fatalf("unexpected prefix: %q ok=%v", prefix, ok)
		}
	})

	t.Run("does not match mid-segment", func(t *testing.T) {
		data := buildZip(t, map[string]string{"metadata/key.data": "x"})
		r, err := Open(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := r.FindDirSuffix("data/"); ok {
			t.Fatalf("expected no match inside metadata/")
		}
	})
}

func TestReadInner(t *testing.T) {
	inner := buildZip(t, map[string]string{"key.data": "<key_data/>"})
	outer := buildZip(t, map[string]string{
		"Sample/Data/sample.data": string(inner),
		"Sample/Data/broken.data": "not a zip",
	})
	r, err := Open(outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("extracts nested file", func(t *testing.T) {
		data, err := r.ReadInner("sample/data/SAMPLE.DATA", "KEY.DATA")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "<key_data/>" {
			t.Fatalf("unexpected content: %q", data)
		}
	})

	t.Run("missing nested archive", func(t *testing.T) {
		_, err := r.ReadInner("Sample/Data/other.data", "key.data")
		if !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})

	t.Run("corrupt nested archive", func(t *testing.T) {
		_, err := r.ReadInner("Sample/Data/broken.data", "key.data")
		var archiveErr *ArchiveError
		if !errors.As(err, &archiveErr) {
			t.Fatalf("expected ArchiveError, got %v", err)
		}
	})

	t.Run("missing file inside nested archive", func(t *testing.T) {
		_, err := r.ReadInner("Sample/Data/sample.data", "absent.data")
		if !errors.Is(err, ErrEntryNotFound) {
			t.Fatalf("expected ErrEntryNotFound, got %v", err)
		}
	})
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		`A\B\C.txt`:  "a/b/c.txt",
		"/lead/in":   "lead/in",
		"Plain.data": "plain.data",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
