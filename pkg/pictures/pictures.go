package pictures

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedImage is returned when an upload cannot be decoded as an
// image. Handlers surface it as a form-level error, never a server error.
var ErrUnsupportedImage = errors.New("uploaded file is not a supported image")

// Thumbnail bounding box. Images are scaled down to fit inside it while
// preserving aspect ratio; images that already fit are stored as-is.
const (
	maxWidth  = 125
	maxHeight = 125
)

// Store persists resized profile pictures into a single shared directory.
// Stored names are random, so concurrent saves need no coordination.
type Store struct {
	dir string
}

// NewStore creates the picture directory if needed and returns a Store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create picture directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// Save ingests one uploaded image: it decodes the content, scales it down to
// fit the thumbnail box, and writes it under a random 16-hex-character name
// that keeps the original file's extension. The stored name is returned.
// A superseded picture is never removed; old files accumulate in the
// directory (known limitation, kept from the original behavior).
func (s *Store) Save(filename string, content io.Reader) (string, error) {
	token := make([]byte, 8)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate picture name: %w", err)
	}
	storedName := hex.EncodeToString(token) + filepath.Ext(filename)

	img, err := imaging.Decode(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	thumb := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	path := filepath.Join(s.dir, storedName)
	if err := imaging.Save(thumb, path); err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedImage, filepath.Ext(filename))
		}
		return "", fmt.Errorf("failed to save picture %s: %w", storedName, err)
	}

	log.Printf("Saved profile picture %s (%dx%d)", storedName, thumb.Bounds().Dx(), thumb.Bounds().Dy())
	return storedName, nil
}
