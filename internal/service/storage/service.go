package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/pkg/errors"
)

const TypeLocal = "local"

type Service struct {
	basePath string
	baseURL  string
	logger   *logger.Logger
}

func New(storageType, basePath, baseURL string, log *logger.Logger) (*Service, error) {
	if storageType != "" && storageType != TypeLocal {
		return nil, errors.New(errors.ErrCodeStorage, fmt.Sprintf("storage type %q is not supported", storageType))
	}
	return &Service{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   log,
	}, nil
}

// Save writes data as <id><ext> and returns the URL it is served under.
func (s *Service) Save(ctx context.Context, id, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "save cancelled")
	}

	filename := id + ext
	if !validName(filename) {
		return "", errors.New(errors.ErrCodeStorage, fmt.Sprintf("invalid file name %q", filename))
	}

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "failed to create output directory")
	}

	filePath := filepath.Join(s.basePath, filename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "failed to write file")
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, filename)
	s.logger.Info("saved file locally", "path", filePath, "url", url, "size", len(data))

	return url, nil
}

// Open reads a stored file by name.
func (s *Service) Open(ctx context.Context, filename string) ([]byte, error) {
	if !validName(filename) {
		return nil, errors.New(errors.ErrCodeNotFound, "file not found")
	}

	data, err := os.ReadFile(filepath.Join(s.basePath, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "file not found")
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to read file")
	}

	return data, nil
}

// validName rejects anything that could escape basePath.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
