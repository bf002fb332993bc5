package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads files as Cloudinary assets inside one folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
	http   *http.Client
}

func NewCloudinaryStore(url, folder string) (*CloudinaryStore, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if url != "" {
		cld, err = cloudinary.NewFromURL(url)
	} else {
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: strings.Trim(folder, "/"), http: http.DefaultClient}, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func (s *CloudinaryStore) publicID(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func (s *CloudinaryStore) Save(ctx context.Context, name string, r io.Reader, _ string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       s.publicID(name),
		ResourceType:   "auto",
		UniqueFilename: boolPtr(false),
		Overwrite:      boolPtr(true),
		Invalidate:     boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

func (s *CloudinaryStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	asset, err := s.cld.Image(path.Join(s.folder, s.publicID(name)))
	if err != nil {
		return nil, err
	}
	url, err := asset.String()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.New("cloudinary fetch failed: " + resp.Status)
	}
	return resp.Body, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   path.Join(s.folder, s.publicID(name)),
		Invalidate: boolPtr(true),
	})
	return err
}
