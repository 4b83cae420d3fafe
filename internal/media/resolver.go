package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subburn/internal/services"
)

// Resolver maps opaque video ids to readable paths under the upload
// directory. Uploaded files are stored as "<videoId>_<originalName>".
type Resolver struct {
	uploadDir string
}

// NewResolver returns a resolver rooted at uploadDir.
func NewResolver(uploadDir string) *Resolver {
	return &Resolver{uploadDir: uploadDir}
}

// StoredName builds the on-disk filename for an uploaded file. The original
// name is flattened to its base to keep uploads inside the upload directory.
func StoredName(videoID, originalName string) string {
	base := filepath.Base(strings.TrimSpace(originalName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "input"
	}
	return videoID + "_" + base
}

// Resolve returns the readable path for videoID, or a not-found error when
// no stored file matches.
func (r *Resolver) Resolve(videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return "", services.Wrap(services.ErrValidation, "media", "resolve", "video id is required", nil)
	}

	entries, err := os.ReadDir(r.uploadDir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "media", "resolve", fmt.Sprintf("read upload directory for video %s", videoID), err)
	}
	prefix := videoID + "_"
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(r.uploadDir, entry.Name()), nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "media", "resolve", fmt.Sprintf("video %s not found", videoID), nil)
}
