package models

import (
	"context"
	"fmt"
	"io"
	"path"

	storage_go "github.com/supabase-community/storage-go"
)

const listPageSize = 1000

// ImageStore is the trip image bucket. Paths are relative to the bucket.
type ImageStore interface {
	ListObjects(ctx context.Context, folder string) ([]string, error)
	RemoveObjects(ctx context.Context, paths []string) error
	UploadObject(ctx context.Context, objectPath string, contentType string, body io.Reader) (string, error)
	PublicURL(objectPath string) string
}

// ListObjects returns the full paths of every object directly under folder.
func (su *SupabaseRepo) ListObjects(ctx context.Context, folder string) ([]string, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return nil, err
	}

	var paths []string
	offset := 0
	for {
		files, err := client.Storage.ListFiles(su.bucket, folder, storage_go.FileSearchOptions{
			Limit:  listPageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, err)
		}
		for _, f := range files {
			// the storage API returns placeholder entries for empty folders
			if f.Name == "" || f.Name == ".emptyFolderPlaceholder" {
				continue
			}
			paths = append(paths, path.Join(folder, f.Name))
		}
		if len(files) < listPageSize {
			break
		}
		offset += len(files)
	}
	return paths, nil
}

func (su *SupabaseRepo) RemoveObjects(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	client, err := su.clientFor(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Storage.RemoveFile(su.bucket, paths); err != nil {
		return fmt.Errorf("failed to remove objects: %w", err)
	}
	return nil
}

func (su *SupabaseRepo) UploadObject(ctx context.Context, objectPath string, contentType string, body io.Reader) (string, error) {
	client, err := su.clientFor(ctx)
	if err != nil {
		return "", err
	}

	upsert := false
	opts := storage_go.FileOptions{Upsert: &upsert}
	if contentType != "" {
		opts.ContentType = &contentType
	}

	if _, err := client.Storage.UploadFile(su.bucket, objectPath, body, opts); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	return su.PublicURL(objectPath), nil
}

func (su *SupabaseRepo) PublicURL(objectPath string) string {
	return su.supabaseClient.Storage.GetPublicUrl(su.bucket, objectPath).SignedURL
}
