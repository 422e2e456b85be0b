package services

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	portssvc "github.com/ucontacts/contacts_app/internal/core/ports/services"
	"github.com/ucontacts/contacts_app/internal/platform/config"
)

// UploadService stores avatar images in Cloudinary.
type UploadService struct {
	cld *cloudinary.Cloudinary
}

func NewUploadService(cfg *config.Config) (*UploadService, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &UploadService{cld: cld}, nil
}

var _ portssvc.FileUploadSvc = (*UploadService)(nil)

// UploadAvatar stores the image under a per-user public ID so re-uploads
// replace the previous avatar instead of accumulating.
func (s *UploadService) UploadAvatar(ctx context.Context, file interface{}, username string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       fmt.Sprintf("avatars/%s", username),
		Overwrite:      api.Bool(true),
		Transformation: "c_fill,h_250,w_250",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return resp.SecureURL, nil
}
