// Package storage almacenamiento de adjuntos: disco local o S3 (AWS, MinIO, R2).
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/wms-api/internal/domain"
)

// LocalDisk guarda los archivos bajo un directorio raíz.
type LocalDisk struct {
	root string
}

// NewLocalDisk crea el driver local. root relativo se resuelve contra el directorio de trabajo.
func NewLocalDisk(root string) (*LocalDisk, error) {
	if root == "" {
		root = "storage"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage/local: root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", abs, err)
	}
	return &LocalDisk{root: abs}, nil
}

func (d *LocalDisk) abs(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	full := filepath.Join(d.root, clean)
	if !strings.HasPrefix(full, d.root+string(filepath.Separator)) {
		return "", domain.Invalid("key", "ruta fuera del almacenamiento")
	}
	return full, nil
}

// ── Write ─────────────────────────────────────────────────────────────────────

// Put escribe el archivo completo; si la copia falla no deja archivos parciales.
func (d *LocalDisk) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	return f.Close()
}

// ── Read ──────────────────────────────────────────────────────────────────────

func (d *LocalDisk) Get(_ context.Context, key string) (io.ReadCloser, error) {
	full, err := d.abs(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", key, err)
	}
	return f, nil
}

// ── Delete ────────────────────────────────────────────────────────────────────

func (d *LocalDisk) Delete(_ context.Context, key string) error {
	full, err := d.abs(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}
