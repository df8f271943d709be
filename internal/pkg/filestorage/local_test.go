package filestorage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://cdn.example.com/uploads/", zerolog.Nop())
	require.NoError(t, err)
	return ls, dir
}

func TestLocalStorageStoreExistsDelete(t *testing.T) {
	ls, dir := newTestStorage(t)
	ctx := context.Background()

	stored, err := ls.Store(ctx, "files/jordan/grade-1/worksheets/sheet.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "files/jordan/grade-1/worksheets/sheet.pdf", stored)

	content, err := os.ReadFile(filepath.Join(dir, "files", "jordan", "grade-1", "worksheets", "sheet.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(content))

	ok, err := ls.Exists(ctx, stored)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, ls.Delete(ctx, stored))
	ok, err = ls.Exists(ctx, stored)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is fine
	assert.NoError(t, ls.Delete(ctx, stored))
}

func TestLocalStorageStoreCollision(t *testing.T) {
	ls, _ := newTestStorage(t)
	ctx := context.Background()

	first, err := ls.Store(ctx, "files/a/b/c/notes.pdf", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := ls.Store(ctx, "files/a/b/c/notes.pdf", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "files/a/b/c/notes-"))
	assert.True(t, strings.HasSuffix(second, ".pdf"))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	ls, _ := newTestStorage(t)
	ctx := context.Background()

	for _, p := range []string{"", "/etc/passwd", "../outside.txt", "files/../../outside.txt", "."} {
		_, err := ls.Store(ctx, p, strings.NewReader("x"))
		assert.True(t, errors.Is(err, ErrInvalidPath), "path %q", p)
	}
}

func TestCleanPath(t *testing.T) {
	p, err := CleanPath("files//jordan/./x.pdf")
	require.NoError(t, err)
	assert.Equal(t, "files/jordan/x.pdf", p)

	p, err = CleanPath(`files\jordan\x.pdf`)
	require.NoError(t, err)
	assert.Equal(t, "files/jordan/x.pdf", p)
}

func TestLocalStorageURL(t *testing.T) {
	ls, _ := newTestStorage(t)
	assert.Equal(t, "http://cdn.example.com/uploads/files/x.pdf", ls.URL("files/x.pdf"))

	bare, err := NewLocalStorage(t.TempDir(), "", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "/uploads/files/x.pdf", bare.URL("files/x.pdf"))
}
