// Package media uploads gallery photos to Supabase Storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	storage "github.com/supabase-community/storage-go"
)

// ErrDisabled is returned by New when Supabase is not configured.
var ErrDisabled = errors.New("supabase storage is not configured")

// Config locates the Supabase project and bucket.
type Config struct {
	URL    string
	Key    string
	Bucket string
	Folder string
}

// Uploader stores files in a public bucket.
type Uploader struct {
	client *storage.Client
	bucket string
	folder string
	log    zerolog.Logger
}

// New creates an uploader, or returns ErrDisabled when URL or Key is empty.
func New(cfg Config, log zerolog.Logger) (*Uploader, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, ErrDisabled
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "gallery"
	}
	return &Uploader{
		client: storage.NewClient(strings.TrimRight(cfg.URL, "/")+"/storage/v1", cfg.Key, nil),
		bucket: bucket,
		folder: cfg.Folder,
		log:    log.With().Str("component", "media").Logger(),
	}, nil
}

// Upload stores r under a fresh object name keeping the extension of
// filename, and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	objectPath := objectPath(u.folder, uuid.NewString(), filename)
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := u.client.UploadFile(u.bucket, objectPath, r, options); err != nil {
		u.log.Error().Err(err).Str("object", objectPath).Msg("Error uploading photo")
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	publicURL := u.client.GetPublicUrl(u.bucket, objectPath)
	u.log.Info().Str("object", objectPath).Msg("Photo uploaded")
	return publicURL.SignedURL, nil
}

func objectPath(folder, id, filename string) string {
	name := id + strings.ToLower(filepath.Ext(filename))
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}
