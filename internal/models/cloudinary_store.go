package models

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryTag = "tripdesk"

// CloudinaryStore keeps trip images in Cloudinary instead of the Supabase
// bucket. Object paths map to public ids without their extension.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cld *cloudinary.Cloudinary) *CloudinaryStore {
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld}
}

func publicID(objectPath string) string {
	return strings.TrimSuffix(objectPath, path.Ext(objectPath))
}

func (cs *CloudinaryStore) ListObjects(ctx context.Context, folder string) ([]string, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"

	var ids []string
	cursor := ""
	for {
		res, err := cs.cld.Admin.Assets(ctx, admin.AssetsParams{
			AssetType:    api.Image,
			DeliveryType: string(api.Upload),
			Prefix:       prefix,
			MaxResults:   500,
			NextCursor:   cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, err)
		}
		if res.Error.Message != "" {
			return nil, fmt.Errorf("failed to list %s: %s", folder, res.Error.Message)
		}
		for _, a := range res.Assets {
			ids = append(ids, a.PublicID)
		}
		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}
	return ids, nil
}

// RemoveObjects destroys each asset in turn and stops at the first failure.
func (cs *CloudinaryStore) RemoveObjects(ctx context.Context, paths []string) error {
	for _, p := range paths {
		res, err := cs.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID(p)})
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
		if res.Error.Message != "" {
			return fmt.Errorf("failed to remove %s: %s", p, res.Error.Message)
		}
	}
	return nil
}

func (cs *CloudinaryStore) UploadObject(ctx context.Context, objectPath string, contentType string, body io.Reader) (string, error) {
	res, err := cs.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID: publicID(objectPath),
		Tags:     []string{cloudinaryTag},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %s", objectPath, res.Error.Message)
	}
	return res.SecureURL, nil
}

// PublicURL returns an empty string when the asset url cannot be built.
func (cs *CloudinaryStore) PublicURL(objectPath string) string {
	img, err := cs.cld.Image(publicID(objectPath))
	if err != nil {
		return ""
	}
	url, err := img.String()
	if err != nil {
		return ""
	}
	return url
}
