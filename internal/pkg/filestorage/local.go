package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/aiu/stimulus/internal/pkg/logger"
)

// LocalStorage saves files under a single root directory on local disk.
// Stored paths are relative to the root so they survive a basePath move.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// SaveUpload saves an uploaded file under subPath with a unique name that
// keeps the original extension.
func (ls *LocalStorage) SaveUpload(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	uniqueFilename := uuid.New().String() + ext

	relPath, err := ls.write(file, subPath, uniqueFilename)
	if err != nil {
		return "", err
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", relPath).Msg("File saved")
	return relPath, nil
}

// SaveBytes writes generated content under subPath with the given filename,
// overwriting any previous file of the same name.
func (ls *LocalStorage) SaveBytes(content []byte, subPath, filename string) (string, error) {
	dirPath := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	relPath := filepath.Join(subPath, filename)
	dstPath := filepath.Join(ls.basePath, relPath)
	if err := os.WriteFile(dstPath, content, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write generated file")
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return relPath, nil
}

func (ls *LocalStorage) write(src io.Reader, subPath, filename string) (string, error) {
	dirPath := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	relPath := filepath.Join(subPath, filename)
	dstPath := filepath.Join(ls.basePath, relPath)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	return relPath, nil
}

// DeleteFile removes a stored file by its relative path. Deleting a file
// that no longer exists succeeds.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	physicalPath := ls.GetFullPath(filePath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetFullPath returns the full filesystem path for a stored relative path.
// Paths that escape the storage root resolve to "".
func (ls *LocalStorage) GetFullPath(filePath string) string {
	if filePath == "" {
		return ""
	}

	full := filepath.Join(ls.basePath, filepath.Clean("/"+filePath))
	rel, err := filepath.Rel(ls.basePath, full)
	if err != nil || rel == "." || rel == ".." {
		return ""
	}
	return full
}
