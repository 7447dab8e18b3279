package handlers

import (
	"context"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// uploadPostImage pushes an image to Cloudinary and returns its durable URL.
// The upload is a blocking round trip inside the post create/update request.
func uploadPostImage(ctx context.Context, file multipart.File) (string, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return "", err
	}

	uploadParams := uploader.UploadParams{
		Folder:         "newsdesk/posts",
		PublicID:       uuid.NewString(),
		Transformation: "c_limit,w_1600,h_1200,q_auto",
	}

	result, err := cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		return "", err
	}

	return result.SecureURL, nil
}
