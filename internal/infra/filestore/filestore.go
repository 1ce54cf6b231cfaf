// Package filestore stores uploaded onboarding documents on local disk.
// Files land under a per-customer directory, named by document type and
// original filename: <root>/<company>/<type>_<filename>.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/antscrawling/SupplyChainManagement/internal/domain"
)

// Local writes document files beneath a root directory.
type Local struct {
	root   string
	logger *zap.Logger
}

// New creates a local file store rooted at dir, creating it if needed.
func New(dir string, logger *zap.Logger) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Local{root: dir, logger: logger}, nil
}

// Save streams content to disk and returns the stored path, relative to the
// process working directory.
func (l *Local) Save(ctx context.Context, companyName string, docType domain.DocumentType, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(l.root, sanitize(companyName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create customer dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s", docType, sanitize(filepath.Base(filename)))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create document file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write document file: %w", err)
	}

	l.logger.Debug("document stored",
		zap.String("company", companyName),
		zap.String("path", path),
	)
	return path, nil
}

// sanitize strips path separators so company names and filenames cannot
// escape the upload root.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "..", "_")
	return s
}
