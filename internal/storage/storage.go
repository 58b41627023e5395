package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Bucket names, each a directory under the storage root.
const (
	BucketProductImages = "product-images"
	BucketPaymentQR     = "payment-qr"
	BucketPaymentProofs = "payment-proofs"
)

type Storage interface {
	// Save writes the content under a generated filename and returns
	// the public URL path.
	Save(bucket, ext string, content io.Reader) (string, error)
}

type localStorage struct {
	root string
}

func NewLocalStorage(root string) (Storage, error) {
	for _, bucket := range []string{BucketProductImages, BucketPaymentQR, BucketPaymentProofs} {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &localStorage{root: root}, nil
}

func (s *localStorage) Save(bucket, ext string, content io.Reader) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := uuid.NewString() + ext

	file, err := os.Create(filepath.Join(s.root, bucket, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/storage/" + bucket + "/" + name, nil
}
