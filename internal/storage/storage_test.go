package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "organizers.csv")

	err := WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first run\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	// second run overwrites
	err = WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "second run\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "second run\n" {
		t.Errorf("content = %q, want second run", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteFile_ErrorKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteFile(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WriteFile() error = %v, want boom", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Errorf("content = %q, want previous content kept", data)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/data/out.csv")
	if err != nil {
		t.Fatalf("ExpandPath() error: %v", err)
	}
	if got != filepath.Join(home, "data", "out.csv") {
		t.Errorf("ExpandPath() = %q", got)
	}

	if got, _ := ExpandPath("relative/out.csv"); got != "relative/out.csv" {
		t.Errorf("ExpandPath(relative) = %q", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")
	os.WriteFile(path, []byte("a,b\n"), 0644)

	f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer f.Close()

	data, _ := io.ReadAll(f)
	if !strings.HasPrefix(string(data), "a,b") {
		t.Errorf("content = %q", data)
	}

	if _, err := Open(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("Open(missing) should fail")
	}
}
