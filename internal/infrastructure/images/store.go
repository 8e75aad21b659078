package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakescan/backend/internal/domain"
)

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// Store mirrors externally hosted product images into an owned directory so
// the catalog never depends on third-party image hosting.
type Store struct {
	dir           string
	publicBaseURL string
	httpClient    *http.Client
}

// NewStore creates an image store rooted at dir. Mirrored files are exposed
// under publicBaseURL.
func NewStore(dir, publicBaseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create images dir: %w", err)
	}

	return &Store{
		dir:           dir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Mirror downloads imageURL and stores it locally, returning the public URL
// the mirrored copy is served under.
func (s *Store) Mirror(ctx context.Context, imageURL, sakeName string) (string, error) {
	if imageURL == "" {
		return "", domain.ErrInvalidRequest
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageDownload, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; SakeScan/1.0)")
	req.Header.Set("Accept", "image/*")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrImageDownload, resp.StatusCode)
	}

	filename := s.filename(sakeName, resp.Header.Get("Content-Type"))
	destPath := filepath.Join(s.dir, filename)

	if err := writeAtomic(s.dir, destPath, resp.Body); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	return s.publicBaseURL + "/" + filename, nil
}

// filename builds a collision-free name from the sake name and content type.
func (s *Store) filename(sakeName, contentType string) string {
	safe := unsafeNameChars.ReplaceAllString(strings.ToLower(sakeName), "-")
	safe = strings.Trim(safe, "-")
	if safe == "" {
		safe = "sake"
	}
	if len(safe) > 30 {
		safe = safe[:30]
	}

	return fmt.Sprintf("%s-%s.%s", safe, uuid.NewString()[:8], extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "webp"):
		return "webp"
	case strings.Contains(contentType, "gif"):
		return "gif"
	default:
		return "jpg"
	}
}

// writeAtomic streams body into a temp file and renames it into place, so a
// failed download never leaves a truncated image behind.
func writeAtomic(dir, destPath string, body io.Reader) error {
	tmpFile, err := os.CreateTemp(dir, "image_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, body); err != nil {
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, destPath)
}

// Dir returns the storage directory path.
func (s *Store) Dir() string {
	return s.dir
}
