package inspect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func writeDictionary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dictionary.json")
	if err := os.WriteFile(path, []byte(`{"pear":["fruit"],"apple":["fruit"," red "]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectText(t *testing.T) {
	path := writeDictionary(t)
	var buf bytes.Buffer
	if err := inspect(&buf, path, "text"); err != nil {
		t.Fatalf("inspect() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Words:       2") {
		t.Errorf("missing word count in %q", out)
	}
	if strings.Index(out, "apple") > strings.Index(out, "pear") {
		t.Error("words are not sorted")
	}
	if !strings.Contains(out, "  2. red\n") {
		t.Errorf("meanings not trimmed in %q", out)
	}
}

func TestInspectJSON(t *testing.T) {
	path := writeDictionary(t)
	var buf bytes.Buffer
	if err := inspect(&buf, path, "json"); err != nil {
		t.Fatalf("inspect() error = %v", err)
	}
	var s summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if s.Words != 2 || len(s.Fingerprint) != 64 || s.Codec != "json" {
		t.Errorf("summary = %+v", s)
	}
}

func TestInspectYAML(t *testing.T) {
	path := writeDictionary(t)
	var buf bytes.Buffer
	if err := inspect(&buf, path, "yaml"); err != nil {
		t.Fatalf("inspect() error = %v", err)
	}

	var s struct {
		Words      int                 `yaml:"words"`
		Dictionary map[string][]string `yaml:"dictionary"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("invalid yaml output: %v\n%s", err, buf.String())
	}
	if s.Words != 2 || len(s.Dictionary["apple"]) != 2 {
		t.Errorf("decoded yaml = %+v", s)
	}
}

func TestInspectErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := inspect(&buf, filepath.Join(t.TempDir(), "missing.json"), "text"); err == nil {
		t.Error("missing file accepted")
	}
	if err := inspect(&buf, writeDictionary(t), "xml"); err == nil {
		t.Error("invalid format accepted")
	}
}
