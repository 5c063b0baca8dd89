package distribution

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"mediafetch/domain/distribution"
	"mediafetch/domain/media"

	"github.com/rs/zerolog"
)

// UploadService handles file upload operations to Google Drive
type UploadService struct {
	driveClient distribution.DriveClient
	folderID    string
	share       bool
	logger      zerolog.Logger
}

// Option configures an UploadService
type Option func(*UploadService)

// WithSharing makes every uploaded file readable by anyone with the link
func WithSharing(share bool) Option {
	return func(s *UploadService) { s.share = share }
}

// WithLogger sets the logger used to report replacements and uploads
func WithLogger(logger zerolog.Logger) Option {
	return func(s *UploadService) { s.logger = logger }
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.DriveClient, folderID string, opts ...Option) *UploadService {
	s := &UploadService{
		driveClient: client,
		folderID:    folderID,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadFile uploads one local file, replacing any file of the same name
// already in the target folder
func (s *UploadService) UploadFile(ctx context.Context, filePath string) (*distribution.UploadResult, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}

	quota, err := s.driveClient.GetStorageQuota(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check storage quota: %w", err)
	}

	fileName := filepath.Base(filePath)

	// Check for existing file with same name and delete if found
	existing, err := s.driveClient.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	reclaimed := int64(0)
	if existing != nil {
		reclaimed = existing.Size
	}
	if !quota.HasSpaceFor(stat.Size() - reclaimed) {
		return nil, fmt.Errorf("not enough Drive storage for %s: need %d bytes, %d available", fileName, stat.Size(), quota.AvailableBytes)
	}
	if existing != nil {
		s.logger.Info().Str("file", existing.Name).Int64("size", existing.Size).Msg("replacing existing file")
		if err := s.driveClient.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := distribution.UploadRequest{
		LocalPath: filePath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  distribution.MimeTypeFor(filePath),
		Share:     s.share,
	}

	result, err := s.driveClient.Upload(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", fileName, err)
	}
	s.logger.Info().Str("file", fileName).Str("url", result.ShareableURL).Msg("uploaded")

	return result, nil
}

// UploadResult uploads the primary files of a finished download, plus its
// thumbnails and subtitles when includeSidecars is set. Uploads stop at the
// first failure; results gathered so far are returned with the error.
func (s *UploadService) UploadResult(ctx context.Context, result *media.Result, includeSidecars bool) ([]distribution.UploadResult, error) {
	if result == nil {
		return nil, nil
	}

	paths := append([]string{}, result.Files...)
	if includeSidecars {
		paths = append(paths, result.Thumbnails...)
		paths = append(paths, result.Subtitles...)
	}

	uploaded := make([]distribution.UploadResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return uploaded, err
		}
		r, err := s.UploadFile(ctx, path)
		if err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, *r)
	}
	return uploaded, nil
}
