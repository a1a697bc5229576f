package filestorage

import "mime/multipart"

// Storage subdirectories for the two kinds of stored artifacts.
const (
	PapersDir    = "papers"
	GeneratedDir = "generated"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveUpload saves an uploaded file into a subdirectory and returns
	// the stored relative path
	SaveUpload(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// SaveBytes writes generated content under a subdirectory with the
	// given filename and returns the stored relative path
	SaveBytes(content []byte, subPath, filename string) (string, error)

	// DeleteFile removes a stored file; deleting a missing file is not an error
	DeleteFile(filePath string) error

	// GetFullPath returns the full filesystem path for a stored relative path
	GetFullPath(filePath string) string
}
