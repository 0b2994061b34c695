package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "clausewise.db")
	indexDir := filepath.Join(dir, "clauses.bleve")
	auditPath := filepath.Join(dir, "audit.jsonl")

	write := func(path, content string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(dbPath, "hello")
	write(filepath.Join(indexDir, "store", "a"), "ab")
	write(filepath.Join(indexDir, "b"), "c")

	cases := []struct {
		name  string
		paths []string
		want  int64
	}{
		{"single file", []string{dbPath}, 5},
		{"nested dir", []string{indexDir}, 3},
		{"file and dir", []string{dbPath, indexDir}, 8},
		{"missing audit log skipped", []string{dbPath, auditPath, indexDir}, 8},
		{"empty path skipped", []string{"", dbPath}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DiskUsageBytes(tc.paths...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %d bytes, want %d", got, tc.want)
			}
		})
	}
}
