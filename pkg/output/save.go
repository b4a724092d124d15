package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/df07/go-scene-raytracer/pkg/core"
)

// Saver writes rendered images to local files or S3
type Saver struct {
	s3Config S3Config
	uploader *S3Uploader // Created on first S3 destination
	logger   core.Logger
}

// NewSaver creates a saver. S3 settings are only used for s3:// destinations.
func NewSaver(s3Config S3Config, logger core.Logger) *Saver {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Saver{s3Config: s3Config, logger: logger}
}

// Save encodes img in the format named by dest's extension and writes it to
// dest, which is either a file path or s3://bucket/key
func (s *Saver) Save(ctx context.Context, dest string, img image.Image) error {
	format, err := FormatFromPath(dest)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", dest, err)
	}

	bucket, key, isS3, err := ParseS3URL(dest)
	if err != nil {
		return err
	}
	if isS3 {
		if s.uploader == nil {
			if s.uploader, err = NewS3Uploader(s.s3Config); err != nil {
				return err
			}
		}
		if err := s.uploader.Upload(ctx, bucket, key, buf.Bytes(), format.ContentType()); err != nil {
			return err
		}
		s.logger.Printf("Uploaded %s (%d bytes)\n", dest, buf.Len())
		return nil
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", dest, err)
	}
	s.logger.Printf("Render saved as %s\n", dest)
	return nil
}
