package uploads_test

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestdesk-system/internal/uploads"
)

func fileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["photo"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSaveGeneratesName(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	path, err := store.Save(fileHeader(t, "Portrait.PNG", "image/png", []byte("png-bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/employee-"))
	assert.True(t, strings.HasSuffix(path, ".png"))
	assert.NotContains(t, path, "Portrait")

	onDisk, err := os.ReadFile(filepath.Join(store.Dir, filepath.Base(path)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), onDisk)
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "report.pdf", "application/pdf", []byte("%PDF")))
	assert.ErrorIs(t, err, uploads.ErrInvalidFileType)
}

func TestSaveRejectsOversize(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir(), 8)
	require.NoError(t, err)

	_, err = store.Save(fileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("a"), 64)))
	assert.ErrorIs(t, err, uploads.ErrFileTooLarge)
}

func TestDelete(t *testing.T) {
	store, err := uploads.NewStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	path, err := store.Save(fileHeader(t, "photo.jpg", "image/jpeg", []byte("jpg")))
	require.NoError(t, err)

	full := filepath.Join(store.Dir, filepath.Base(path))
	_, err = os.Stat(full)
	require.NoError(t, err)

	store.Delete(path)
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing or empty path is a no-op.
	store.Delete(path)
	store.Delete("")
}
