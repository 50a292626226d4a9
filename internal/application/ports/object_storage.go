package ports

import (
	"context"
	"io"
)

// ObjectStorage almacenamiento de archivos (imágenes de producto).
type ObjectStorage interface {
	// Upload guarda el contenido bajo key y devuelve la URL pública.
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}
