package uploads

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store keeps uploaded employee photos on disk under a static-served
// directory. Filenames are generated, only the original extension survives.
type Store struct {
	Dir          string
	MaxSizeBytes int64
}

func NewStore(dir string, maxSizeBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &Store{Dir: dir, MaxSizeBytes: maxSizeBytes}, nil
}

// Save validates and writes one uploaded photo, returning the public
// /uploads path stored on the employee record.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > s.MaxSizeBytes {
		return "", ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedTypes[strings.ToLower(contentType)] {
		return "", ErrInvalidFileType
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := fmt.Sprintf("employee-%s%s", uuid.New().String(), ext)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return "/uploads/" + name, nil
}

// Delete removes a previously saved photo by its public path. The DB write
// has already committed when this runs, so a failed delete is only logged.
func (s *Store) Delete(publicPath string) {
	if publicPath == "" {
		return
	}
	name := filepath.Base(publicPath)
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("Error deleting photo %s: %v", name, err)
	}
}
