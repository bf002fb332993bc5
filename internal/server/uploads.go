package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/agridirect/marketplace/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// uploadBatch tracks files written while handling one request so they can be
// removed if the request fails after the write.
type uploadBatch struct {
	s     *Server
	names []string
}

func (s *Server) newUploadBatch() *uploadBatch {
	return &uploadBatch{s: s}
}

// save stores the multipart file under field and returns its public
// reference. A missing file yields an empty reference and no error.
func (b *uploadBatch) save(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", ErrInvalidRequest
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := storage.GenerateName(b.s.clock.Now(), fh.Filename)
	ref, err := b.s.store.Save(c.Request.Context(), name, f, fh.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	b.names = append(b.names, name)
	return ref, nil
}

// discard removes every file saved by the batch.
func (b *uploadBatch) discard(ctx context.Context) {
	for _, name := range b.names {
		if err := b.s.store.Delete(ctx, name); err != nil {
			b.s.log.Warn("failed to remove upload", zap.String("name", name), zap.Error(err))
		}
	}
	b.names = nil
}
