package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenSinks_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dyndns.log")

	for i := 0; i < 2; i++ {
		w, c, err := OpenSinks(path, nil)
		if err != nil {
			t.Fatalf("OpenSinks() error = %v", err)
		}
		if _, err := w.Write([]byte("line\n")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := c.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Count(string(data), "line\n") != 2 {
		t.Errorf("expected two appended lines, got %q", data)
	}
}

func TestOpenSinks_TeesToConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dyndns.log")
	var console bytes.Buffer

	w, c, err := OpenSinks(path, &console)
	if err != nil {
		t.Fatalf("OpenSinks() error = %v", err)
	}
	defer c.Close()

	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if console.String() != "hello\n" {
		t.Errorf("console = %q", console.String())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "hello\n" {
		t.Errorf("file = %q", data)
	}
}

func TestOpenSinks_EmptyPath(t *testing.T) {
	var console bytes.Buffer
	w, c, err := OpenSinks("", &console)
	if err != nil {
		t.Fatalf("OpenSinks() error = %v", err)
	}
	if w != &console {
		t.Error("expected the console writer")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	w, _, _ = OpenSinks("", nil)
	if w != os.Stderr {
		t.Error("expected stderr for a nil console")
	}
}
