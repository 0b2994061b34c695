package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu        sync.Mutex
	analyzed  []string
	removed   []string
	failPaths map[string]bool
}

func (r *recorder) Analyze(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failPaths[filepath.Base(path)] {
		return errors.New("corrupt pdf")
	}
	r.analyzed = append(r.analyzed, path)
	return nil
}

func (r *recorder) Remove(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
	return nil
}

func (r *recorder) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.analyzed), len(r.removed)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, roots []string, h Handler) *Watcher {
	t.Helper()
	w := New(roots, []string{".txt", ".pdf"}, true, h, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_AddRemoveDirectories(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, nil, &recorder{})

	if err := w.AddDirectory(dir, false); err != nil {
		t.Fatal(err)
	}
	if err := w.AddDirectory(dir, false); err != nil {
		t.Fatal(err)
	}
	dirs := w.Directories()
	if len(dirs) != 1 || filepath.Clean(dirs[0]) != filepath.Clean(dir) {
		t.Errorf("Directories() = %v", dirs)
	}

	if err := w.RemoveDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 0 {
		t.Errorf("after remove: %v", w.Directories())
	}
}

func TestWatcher_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "inbox", "new")
	startWatcher(t, []string{root}, &recorder{})
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("root should be created: %v", err)
	}
}

func TestWatcher_AnalyzesSettledContracts(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "vendors")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	w := startWatcher(t, []string{dir}, rec)

	path := filepath.Join(sub, "supply.txt")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("The vendor shall deliver goods."), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(sub, "notes.md"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "~$supply.txt"), []byte("lock"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, func() bool { n, _ := rec.counts(); return n >= 1 }) {
		t.Fatal("expected the contract to be analyzed")
	}
	time.Sleep(150 * time.Millisecond)
	rec.mu.Lock()
	for _, p := range rec.analyzed {
		if p != path {
			t.Errorf("unexpected analyzed path %s", p)
		}
	}
	rec.mu.Unlock()
	if w.Stats().Analyzed < 1 {
		t.Errorf("stats = %+v", w.Stats())
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool { _, n := rec.counts(); return n == 1 }) {
		t.Error("expected one remove callback")
	}
}

func TestWatcher_SyncExistingFilesCountsFailures(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"good.txt", "bad.pdf", "skip.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	rec := &recorder{failPaths: map[string]bool{"bad.pdf": true}}
	w := startWatcher(t, []string{dir}, rec)
	w.SyncExistingFiles()

	st := w.Stats()
	if st.Analyzed != 1 || st.Failed != 1 {
		t.Errorf("stats = %+v, want 1 analyzed and 1 failed", st)
	}
}

func TestIsScratchFile(t *testing.T) {
	cases := map[string]bool{
		"/inbox/~$lease.docx": true,
		"/inbox/.DS_Store":    true,
		"/inbox/lease.docx":   false,
	}
	for path, want := range cases {
		if got := isScratchFile(path); got != want {
			t.Errorf("isScratchFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.pdf", []string{".pdf"}, true},
		{"/a/b.PDF", []string{".pdf"}, true},
		{"/a/b.docx", []string{"docx"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
	}
	for _, tt := range tests {
		if got := matchExtension(tt.path, tt.extensions); got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.txt", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
	}
	for _, tt := range tests {
		if got := inDir(tt.dir, tt.path); got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}
