package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/infrastructure/storage"
)

func TestLocalDisk_PutGetDelete(t *testing.T) {
	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, disk.Put(ctx, "outbound/o-1/a.pdf", strings.NewReader("%PDF-1.4"), 8, "application/pdf"))

	rc, err := disk.Get(ctx, "outbound/o-1/a.pdf")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, disk.Delete(ctx, "outbound/o-1/a.pdf"))
	_, err = disk.Get(ctx, "outbound/o-1/a.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, disk.Delete(ctx, "outbound/o-1/a.pdf"), "borrar dos veces no es error")
}

func TestLocalDisk_NoSaleDeLaRaiz(t *testing.T) {
	root := t.TempDir()
	disk, err := storage.NewLocalDisk(root)
	require.NoError(t, err)

	// "../x" se normaliza dentro de la raíz.
	require.NoError(t, disk.Put(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain"))
	rc, err := disk.Get(context.Background(), "escape.txt")
	require.NoError(t, err)
	_ = rc.Close()

	err = disk.Put(context.Background(), "", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_DriverDesconocido(t *testing.T) {
	_, err := storage.New(context.Background(), storage.Config{Driver: "ftp"})
	assert.Error(t, err)
}
