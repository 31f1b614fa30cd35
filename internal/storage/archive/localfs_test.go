// internal/storage/archive/localfs_test.go
package archive

import (
	"context"
	"testing"
)

func TestLocalFS_ImplementsStorage(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
}

func TestLocalFS_WriteRead(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewLocalFS(dir)
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	data := []byte("<html></html>")

	if err := fs.Write(ctx, "dashboards/2025-06-02.html", data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := fs.Read(ctx, "dashboards/2025-06-02.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestLocalFS_Exists(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewLocalFS(dir)
	ctx := context.Background()

	exists, _ := fs.Exists(ctx, "nonexistent.html")
	if exists {
		t.Error("expected false for nonexistent file")
	}

	fs.Write(ctx, "index.html", []byte("data"))
	exists, _ = fs.Exists(ctx, "index.html")
	if !exists {
		t.Error("expected true for existing file")
	}
}

func TestLocalFS_List(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewLocalFS(dir)
	ctx := context.Background()

	fs.Write(ctx, "dashboards/2025-05-26.html", []byte("a"))
	fs.Write(ctx, "dashboards/2025-06-02.html", []byte("b"))
	fs.Write(ctx, "index.html", []byte("c"))

	paths, err := fs.List(ctx, "dashboards")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(paths) != 2 {
		t.Errorf("expected 2 paths, got %d: %v", len(paths), paths)
	}
}

func TestLocalFS_Delete(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewLocalFS(dir)
	ctx := context.Background()

	fs.Write(ctx, "delete.html", []byte("data"))
	fs.Delete(ctx, "delete.html")

	exists, _ := fs.Exists(ctx, "delete.html")
	if exists {
		t.Error("file should be deleted")
	}
}
