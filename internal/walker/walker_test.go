package walker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stackgrade/stackgrade/internal/contentstore"
)

// fakeStore is an in-memory content store. Keys in dirs are directory paths
// (root is ""); keys in files are file paths. Paths listed in failFetch
// return an error from GetFile.
type fakeStore struct {
	dirs      map[string][]contentstore.Entry
	files     map[string]string
	failFetch map[string]bool
}

func (s *fakeStore) ListDirectory(_ context.Context, _, _, path string) ([]contentstore.Entry, error) {
	entries, ok := s.dirs[path]
	if !ok {
		return nil, contentstore.ErrNotFound
	}
	return entries, nil
}

func (s *fakeStore) GetFile(_ context.Context, _, _, path string) (string, error) {
	if s.failFetch[path] {
		return "", fmt.Errorf("fakeStore: fetch %s: boom", path)
	}
	content, ok := s.files[path]
	if !ok {
		return "", contentstore.ErrNotFound
	}
	return content, nil
}

func file(path, name string) contentstore.Entry {
	return contentstore.Entry{Type: contentstore.EntryFile, Path: path, Name: name}
}

func dir(path, name string) contentstore.Entry {
	return contentstore.Entry{Type: contentstore.EntryDir, Path: path, Name: name}
}

func TestListFiles_Recursion(t *testing.T) {
	store := &fakeStore{
		dirs: map[string][]contentstore.Entry{
			"":        {file("package.json", "package.json"), dir("src", "src")},
			"src":     {file("src/app.jsx", "app.jsx"), dir("src/lib", "lib")},
			"src/lib": {file("src/lib/util.js", "util.js")},
		},
		files: map[string]string{
			"package.json":    `{}`,
			"src/app.jsx":     "app",
			"src/lib/util.js": "util",
		},
	}

	files, err := New(store).ListFiles(context.Background(), "acme", "web")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}

	got := make(map[string]string, len(files))
	for _, f := range files {
		got[f.Path] = f.Content
	}
	want := map[string]string{
		"package.json":    `{}`,
		"src/app.jsx":     "app",
		"src/lib/util.js": "util",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d files, want %d: %v", len(got), len(want), got)
	}
	for path, content := range want {
		if got[path] != content {
			t.Errorf("file %s: content %q, want %q", path, got[path], content)
		}
	}
}

func TestListFiles_RepoNotFound(t *testing.T) {
	store := &fakeStore{dirs: map[string][]contentstore.Entry{}}
	_, err := New(store).ListFiles(context.Background(), "acme", "gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiles_FetchFailureDropsFile(t *testing.T) {
	store := &fakeStore{
		dirs: map[string][]contentstore.Entry{
			"": {file("good.js", "good.js"), file("bad.js", "bad.js")},
		},
		files:     map[string]string{"good.js": "ok"},
		failFetch: map[string]bool{"bad.js": true},
	}

	files, err := New(store).ListFiles(context.Background(), "acme", "web")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1 (failed fetch dropped, not fatal)", len(files))
	}
	if files[0].Path != "good.js" {
		t.Errorf("files[0].Path = %q, want good.js", files[0].Path)
	}
}

func TestListFiles_MaxDepthPrunes(t *testing.T) {
	store := &fakeStore{
		dirs: map[string][]contentstore.Entry{
			"":    {file("top.js", "top.js"), dir("a", "a")},
			"a":   {dir("a/b", "b")},
			"a/b": {file("a/b/deep.js", "deep.js")},
		},
		files: map[string]string{
			"top.js":      "top",
			"a/b/deep.js": "deep",
		},
	}

	w := New(store)
	w.MaxDepth = 1
	files, err := w.ListFiles(context.Background(), "acme", "web")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	for _, f := range files {
		if f.Path == "a/b/deep.js" {
			t.Error("file below MaxDepth was collected")
		}
	}
}

func TestListFiles_MaxFilesStopsCollection(t *testing.T) {
	entries := make([]contentstore.Entry, 0, 10)
	files := make(map[string]string, 10)
	for i := range 10 {
		path := fmt.Sprintf("f%d.js", i)
		entries = append(entries, file(path, path))
		files[path] = "x"
	}
	store := &fakeStore{
		dirs:  map[string][]contentstore.Entry{"": entries},
		files: files,
	}

	w := New(store)
	w.MaxFiles = 3
	w.Concurrency = 1
	got, err := w.ListFiles(context.Background(), "acme", "web")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d files, want 3 (MaxFiles ceiling)", len(got))
	}
}

func TestListFiles_MaxFileSizeSkips(t *testing.T) {
	store := &fakeStore{
		dirs: map[string][]contentstore.Entry{
			"": {
				{Type: contentstore.EntryFile, Path: "small.js", Name: "small.js", Size: 10},
				{Type: contentstore.EntryFile, Path: "huge.js", Name: "huge.js", Size: 10 << 20},
			},
		},
		files: map[string]string{"small.js": "x", "huge.js": "y"},
	}

	files, err := New(store).ListFiles(context.Background(), "acme", "web")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0].Path != "small.js" {
		t.Errorf("files = %v, want only small.js", files)
	}
}
