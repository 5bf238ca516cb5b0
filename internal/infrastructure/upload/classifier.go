package upload

import (
	"errors"
	"fmt"
)

var ErrUnsupportedType = errors.New("unsupported content type")

// contentTypes maps accepted MIME types to stored file extensions. Both
// image/jpeg and image/jpg are accepted; they keep their own extensions.
var contentTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// Classify maps a declared MIME type to a file extension or rejects it.
func Classify(mimeType string) (string, error) {
	ext, ok := contentTypes[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	return ext, nil
}
