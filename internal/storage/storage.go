package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrInvalidName = errors.New("invalid_file_name")
	ErrNotFound    = errors.New("file_not_found")
)

// Store persists uploaded documents and generated artifacts under flat names.
type Store interface {
	// Save writes r under name, replacing any previous object, and returns
	// the public reference clients use to fetch it.
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// GenerateName derives a stored file name from the client supplied one:
// a millisecond timestamp, a dash, then the base name with spaces as underscores.
func GenerateName(now time.Time, original string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SanitizeName(original))
}

func SanitizeName(original string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(original), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return strings.ReplaceAll(base, " ", "_")
}

// NameFromRef recovers the stored name from a public reference.
func NameFromRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}
