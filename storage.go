package marketplace

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// CertificateStore persists uploaded certificates and returns the public URL
// the stored file is served under.
type CertificateStore interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
}

// DiskCertificateStore writes certificates to a local directory. Stored names
// are prefixed with a uuid so concurrent uploads with the same filename never
// clobber each other.
type DiskCertificateStore struct {
	// Dir is the directory uploads are written to
	Dir string
	// BaseURL is the public prefix stored files are served under,
	// e.g. "/certificates"
	BaseURL string
	logger  Logger
}

func NewDiskCertificateStore(dir, baseURL string) *DiskCertificateStore {
	return &DiskCertificateStore{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
		logger:  defLogger{},
	}
}

func (s *DiskCertificateStore) WithLogger(l Logger) *DiskCertificateStore {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *DiskCertificateStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to create upload directory")
	}

	// strip any path the client sent along
	name := uuid.New().String() + "_" + filepath.Base(filename)
	dst := filepath.Join(s.Dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to create certificate file")
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(dst)
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to write certificate file")
	}

	s.logger.Debug("stored certificate %s", dst)

	return path.Join(s.BaseURL, name), nil
}

var _ CertificateStore = (*DiskCertificateStore)(nil)
