package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123-lab_report_v2.pdf", GenerateName(now, "lab report v2.pdf"))
	assert.Equal(t, "1700000000123-passwd", GenerateName(now, "../../etc/passwd"))
	assert.Equal(t, "1700000000123-file", GenerateName(now, ""))
}

func TestNameFromRef(t *testing.T) {
	assert.Equal(t, "42-authQR.png", NameFromRef("/uploads/42-authQR.png"))
	assert.Equal(t, "x.png", NameFromRef("https://storage.googleapis.com/b/x.png"))
	assert.Equal(t, "", NameFromRef(""))
}

func TestLocalStoreSaveOverwriteDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, "7-authQR.png", bytes.NewBufferString("first"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/7-authQR.png", ref)

	_, err = store.Save(ctx, "7-authQR.png", bytes.NewBufferString("second"), "image/png")
	require.NoError(t, err)

	rc, err := store.Open(ctx, "7-authQR.png")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "second", string(body))

	require.NoError(t, store.Delete(ctx, "7-authQR.png"))
	_, err = os.Stat(filepath.Join(dir, "7-authQR.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, "7-authQR.png"))
	_, err = store.Open(ctx, "7-authQR.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "../escape.txt", bytes.NewBufferString("x"), "")
	assert.ErrorIs(t, err, ErrInvalidName)
}
