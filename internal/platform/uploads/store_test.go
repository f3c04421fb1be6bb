package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("profilePicture", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["profilePicture"][0]
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	content := []byte("\x89PNG not really a png")
	stored, err := store.Save(newFileHeader(t, "avatar.png", content))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^uploads/\d{13}-avatar\.png$`), stored)

	got, err := os.ReadFile(filepath.Join(store.root, filepath.Base(stored)))
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSaveStoredPathIndependentOfRoot(t *testing.T) {
	// Wherever the disk directory lives, persisted rows keep the fixed
	// URL-facing prefix the static route serves.
	store, err := New(filepath.Join(t.TempDir(), "some", "other", "content-dir"))
	require.NoError(t, err)

	stored, err := store.Save(newFileHeader(t, "avatar.png", []byte("x")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stored, URLPrefix+"/"), "stored path %q must start with %q", stored, URLPrefix+"/")
	assert.NotContains(t, stored, "content-dir")
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	stored, err := store.Save(newFileHeader(t, `..\..\evil.png`, []byte("x")))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^uploads/\d{13}-evil\.png$`), stored)
}

func TestRemove(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	stored, err := store.Save(newFileHeader(t, "avatar.png", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(stored))
	_, statErr := os.Stat(filepath.Join(store.root, filepath.Base(stored)))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveMissingFile(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	err = store.Remove("uploads/does-not-exist.png")
	require.Error(t, err)
}

func TestRemoveRejectsNonStoredPaths(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	for _, p := range []string{
		"/etc/passwd",
		"uploads/../escape.png",
		"uploads/sub/dir.png",
		"avatar.png",
		"uploads/",
	} {
		assert.Error(t, store.Remove(p), "path %q must be rejected", p)
	}
}

func TestNewEmptyDir(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}
