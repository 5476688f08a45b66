package services

import (
	"context"
	"io"

	"fabtech_dashboard/internal/models"
	"fabtech_dashboard/pkg/backend"

	"go.uber.org/zap"
)

// Storage keeps an empty folder alive with this object; it is not a document.
const folderPlaceholder = ".emptyFolderPlaceholder"

type FileService interface {
	List(ctx context.Context, accessToken, customerID string, folder models.Folder) ([]models.UploadedFile, error)
	Upload(ctx context.Context, accessToken, customerID string, folder models.Folder, contentType string, content io.Reader) ([]models.UploadedFile, error)
	Delete(ctx context.Context, accessToken, customerID string, folder models.Folder, name string) ([]models.UploadedFile, error)
}

type fileService struct {
	backend *backend.Client
	logger  *zap.Logger
}

func NewFileService(backend *backend.Client, logger *zap.Logger) FileService {
	return &fileService{backend: backend, logger: logger}
}

func (s *fileService) List(ctx context.Context, accessToken, customerID string, folder models.Folder) ([]models.UploadedFile, error) {
	if !folder.Valid() {
		return nil, ErrUnknownFolder
	}

	objects, err := s.backend.List(ctx, accessToken, customerID+"/"+string(folder))
	if err != nil {
		return nil, err
	}

	files := make([]models.UploadedFile, 0, len(objects))
	for _, obj := range objects {
		if obj.Name == folderPlaceholder {
			continue
		}
		files = append(files, models.UploadedFile{
			ID:        obj.ID,
			Name:      obj.Name,
			Folder:    folder,
			URL:       s.backend.PublicURL(customerID, string(folder), obj.Name),
			UpdatedAt: obj.UpdatedAt,
		})
	}
	return files, nil
}

// Upload stores the file under a generated name, then returns the refreshed
// folder listing. The refresh only starts once the upload has settled; if it
// fails the upload is still kept.
func (s *fileService) Upload(ctx context.Context, accessToken, customerID string, folder models.Folder, contentType string, content io.Reader) ([]models.UploadedFile, error) {
	if !folder.Valid() {
		return nil, ErrUnknownFolder
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name, err := s.backend.Upload(ctx, accessToken, []string{customerID, string(folder)}, contentType, content)
	if err != nil {
		return nil, err
	}
	s.logger.Info("File uploaded",
		zap.String("customer_id", customerID),
		zap.String("folder", string(folder)),
		zap.String("name", name),
	)

	return s.List(ctx, accessToken, customerID, folder)
}

func (s *fileService) Delete(ctx context.Context, accessToken, customerID string, folder models.Folder, name string) ([]models.UploadedFile, error) {
	if !folder.Valid() {
		return nil, ErrUnknownFolder
	}

	key := customerID + "/" + string(folder) + "/" + name
	if err := s.backend.Remove(ctx, accessToken, []string{key}); err != nil {
		return nil, err
	}
	s.logger.Info("File deleted",
		zap.String("customer_id", customerID),
		zap.String("folder", string(folder)),
		zap.String("name", name),
	)

	return s.List(ctx, accessToken, customerID, folder)
}
