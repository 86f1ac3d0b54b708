// internal/services/upload_service.go
package services

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

const (
	MaxProductImages   = 4
	MaxImageUploadSize = 4 * 1024 * 1024
)

// Per-file rejection reasons.
var (
	ErrImageCountCap       = errors.New("count cap")
	ErrImageTooLarge       = errors.New("file too large")
	ErrImageUnsupported    = errors.New("unsupported type")
	ErrImageUploadRejected = errors.New("upload rejected")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// ImageList is an ordered list of image URLs with a fixed capacity.
type ImageList struct {
	urls     []string
	capacity int
}

func NewImageList(capacity int, existing ...string) *ImageList {
	l := &ImageList{capacity: capacity}
	for _, url := range existing {
		if !l.Append(url) {
			break
		}
	}
	return l
}

// Append adds url unless the list is full.
func (l *ImageList) Append(url string) bool {
	if len(l.urls) >= l.capacity {
		return false
	}
	l.urls = append(l.urls, url)
	return true
}

func (l *ImageList) Remaining() int {
	return l.capacity - len(l.urls)
}

func (l *ImageList) URLs() []string {
	out := make([]string, len(l.urls))
	copy(out, l.urls)
	return out
}

// FileResult is the outcome for one submitted file: a URL or an error reason.
type FileResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
	err      error
}

func (r FileResult) Err() error {
	return r.err
}

type UploadBatch struct {
	Files  []FileResult `json:"files"`
	Images []string     `json:"images"`
}

type UploadService struct {
	store     ObjectStore
	maxSize   int64
	maxImages int
}

func NewUploadService(store ObjectStore, maxSize int64, maxImages int) *UploadService {
	if maxSize <= 0 {
		maxSize = MaxImageUploadSize
	}
	if maxImages <= 0 {
		maxImages = MaxProductImages
	}
	return &UploadService{store: store, maxSize: maxSize, maxImages: maxImages}
}

// UploadImages takes the first files, in submission order, that fit in the
// free slots of the image list; the rest are rejected with the count cap
// whether or not the earlier ones succeed. Every file gets a result; the
// batch only fails as a whole when nothing was submitted.
func (s *UploadService) UploadImages(ctx context.Context, existing []string, files []*multipart.FileHeader) (*UploadBatch, error) {
	if len(files) == 0 {
		return nil, errors.New("no files submitted")
	}

	images := NewImageList(s.maxImages, existing...)
	remaining := images.Remaining()
	batch := &UploadBatch{Files: make([]FileResult, 0, len(files))}

	for i, fh := range files {
		result := FileResult{Filename: fh.Filename}

		if i >= remaining {
			result.err = ErrImageCountCap
		} else if url, err := s.uploadOne(ctx, fh); err != nil {
			result.err = err
		} else {
			result.URL = url
			images.Append(url)
		}

		if result.err != nil {
			result.Error = result.err.Error()
			logrus.WithFields(logrus.Fields{
				"filename": fh.Filename,
				"reason":   result.Error,
			}).Info("Image upload rejected")
		}
		batch.Files = append(batch.Files, result)
	}

	batch.Images = images.URLs()
	return batch, nil
}

func (s *UploadService) uploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxSize {
		return "", ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", ErrImageUploadRejected
	}
	defer f.Close()

	// Read one byte past the limit so a lying Size header is still caught.
	body, err := io.ReadAll(io.LimitReader(f, s.maxSize+1))
	if err != nil {
		return "", ErrImageUploadRejected
	}
	if int64(len(body)) > s.maxSize {
		return "", ErrImageTooLarge
	}

	mtype := mimetype.Detect(body)
	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		return "", ErrImageUnsupported
	}

	url, err := s.store.Put(ctx, GenerateObjectKey("products", ext), mtype.String(), body)
	if err != nil {
		logrus.WithError(err).WithField("filename", fh.Filename).Error("Failed to store image")
		return "", ErrImageUploadRejected
	}
	return url, nil
}
