// Package storage sube los informes generados a Google Cloud Storage.
// Asume Application Default Credentials ya configuradas.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
)

// SubirArchivo sube un archivo local al bucket bajo el nombre de objeto
// indicado y devuelve su URI gs://.
func SubirArchivo(ctx context.Context, bucket, objeto, rutaLocal string) (string, error) {
	f, err := os.Open(rutaLocal)
	if err != nil {
		return "", fmt.Errorf("error abriendo %q: %w", rutaLocal, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error creando cliente de storage: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucket).Object(objeto).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("error copiando al bucket: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error finalizando la subida: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", bucket, objeto), nil
}

// DescargarObjeto baja un objeto completo del bucket
func DescargarObjeto(ctx context.Context, bucket, objeto string) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creando cliente de storage: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(objeto).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("error abriendo %s/%s: %w", bucket, objeto, err)
	}
	defer r.Close()

	datos, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error leyendo el objeto: %w", err)
	}
	return datos, nil
}
