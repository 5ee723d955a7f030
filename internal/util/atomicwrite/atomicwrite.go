// Package atomicwrite reemplaza archivos en un solo paso: un lector (el filtro
// abriendo una lista) ve el archivo viejo completo o el nuevo completo, nunca
// uno a medio escribir.
package atomicwrite

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Options ajusta WriteFile.
type Options struct {
	// Perm del archivo final. Default 0644.
	Perm fs.FileMode

	// Retries reintenta el rename cuando el destino está abierto por otro
	// proceso (Windows niega el reemplazo mientras el filtro tiene la lista
	// abierta). Default 0: un solo intento.
	Retries int

	// Backoff es la espera base entre intentos; crece linealmente.
	Backoff time.Duration
}

// WriteFile escribe data a path de forma atómica.
// Pasos: write tmp (mismo dir) → Sync → Close → Chmod → Rename con reintentos.
// Si todos los renames fallan, el archivo viejo queda intacto.
func WriteFile(path string, data []byte, opts Options) error {
	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()

	// Cleanup en caso de error; tras un rename exitoso Remove no encuentra nada.
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}

	var renameErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 && opts.Backoff > 0 {
			time.Sleep(time.Duration(attempt) * opts.Backoff)
		}
		if renameErr = os.Rename(tmpPath, path); renameErr == nil {
			return nil
		}
	}
	return fmt.Errorf("rename after %d attempt(s): %w", opts.Retries+1, renameErr)
}
