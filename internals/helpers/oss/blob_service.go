// internals/helpers/oss/blob_service.go
package helper

import (
	"context"
	"errors"
	"mime/multipart"
)

/*
BlobService is the uniform upload/delete facade the admission service talks
to. Keys are owned by the caller so object names stay derivable from the
application number (the orphan reaper depends on that).
*/
type BlobService interface {
	// UploadApplicantImage stores the attachment under key and returns the
	// public URL. When webp re-encode is enabled the stored key swaps its
	// extension, which the returned URL reflects.
	UploadApplicantImage(ctx context.Context, key string, fh *multipart.FileHeader) (publicURL string, err error)

	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

// --------------------------------------------------
// Aliyun OSS implementation
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
}

// NewOSSBlobServiceFromEnv builds the facade from ALI_OSS_* env. prefix is
// optional (e.g. "uploads").
func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func (b *OSSBlobService) UploadApplicantImage(ctx context.Context, key string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", errors.New("nil file header")
	}
	if b.svc.Prefix != "" {
		key = b.svc.Prefix + "/" + key
	}
	if WebPEnabled() {
		url, err := b.svc.UploadFormFileAsWebP(ctx, key, fh)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, ErrUnsupportedImage) {
			return "", err
		}
		// fall through: store the original bytes untouched
	}
	return b.svc.UploadFormFile(ctx, key, fh)
}

func (b *OSSBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	return b.svc.DeleteByPublicURL(ctx, publicURL)
}

// Service exposes the underlying client for jobs that need listing
// (the orphan reaper).
func (b *OSSBlobService) Service() *OSSService { return b.svc }
