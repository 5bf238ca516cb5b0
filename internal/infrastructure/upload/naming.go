package upload

import (
	"fmt"
	"strings"
	"time"
)

// uploadsPath is the storage-relative directory exposed at the public base URL.
const uploadsPath = "public/uploads"

// DeriveName builds the stored filename: whitespace replaced with a dash so
// the name stays filesystem- and URL-safe, plus a millisecond timestamp and
// the classified extension for practical uniqueness under concurrent uploads.
// An empty or all-whitespace original falls back to a generic stem.
func DeriveName(original, ext string, now time.Time) string {
	safe := strings.Join(strings.Fields(original), "-")
	if safe == "" {
		safe = "file"
	}
	return fmt.Sprintf("%s-%d.%s", safe, now.UnixMilli(), ext)
}

// StorageURL joins the public base URL, the uploads directory and the
// derived filename.
func StorageURL(baseURL, filename string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + uploadsPath + "/" + filename
}
