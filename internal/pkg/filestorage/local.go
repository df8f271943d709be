package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The base URL the root is served under
	logger   zerolog.Logger
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath, baseURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}, nil
}

// BasePath is the directory served as the storage root.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// CleanPath normalizes a relative storage path and rejects anything escaping the root.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return cleaned, nil
}

func (ls *LocalStorage) physical(p string) string {
	return filepath.Join(ls.basePath, filepath.FromSlash(p))
}

// Store saves r under p. If p is taken, a short unique suffix is added to the file name.
func (ls *LocalStorage) Store(ctx context.Context, p string, r io.Reader) (string, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Dir(ls.physical(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		ls.logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	// Write to a temp file first so readers never observe a partial object.
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		ls.logger.Error().Err(err).Str("path", rel).Msg("Failed to copy uploaded file content")
		return "", fmt.Errorf("failed to save file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	final := rel
	if _, err := os.Stat(ls.physical(final)); err == nil {
		ext := path.Ext(rel)
		final = strings.TrimSuffix(rel, ext) + "-" + uuid.New().String()[:8] + ext
	}

	if err := os.Rename(tmpName, ls.physical(final)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	ls.logger.Debug().Str("path", final).Msg("File saved successfully")
	return final, nil
}

// Delete removes a stored object. Missing objects are ignored.
func (ls *LocalStorage) Delete(ctx context.Context, p string) error {
	rel, err := CleanPath(p)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(ls.physical(rel)); err != nil {
		if os.IsNotExist(err) {
			ls.logger.Warn().Str("path", rel).Msg("File to delete does not exist")
			return nil
		}
		ls.logger.Error().Err(err).Str("path", rel).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.logger.Debug().Str("path", rel).Msg("File deleted successfully")
	return nil
}

// Exists reports whether p is a stored regular file.
func (ls *LocalStorage) Exists(ctx context.Context, p string) (bool, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := os.Stat(ls.physical(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// URL returns baseURL/p, or uploads/p when no base URL is configured.
func (ls *LocalStorage) URL(p string) string {
	if ls.baseURL == "" {
		return "/uploads/" + strings.TrimLeft(p, "/")
	}
	return ls.baseURL + "/" + strings.TrimLeft(p, "/")
}
