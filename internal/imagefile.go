package internal

import (
	"encoding/base64"
	"fmt"
	"os"
)

// maxImageBytes bounds the raw image size accepted for analysis; the encoded
// payload travels inline in the request body
const maxImageBytes = 4 << 20

// EncodeImageFile reads the image at path and returns its base64 encoding,
// ready to embed in a data URI. An empty path means the user cancelled
// selection and yields an empty payload, not an error.
func EncodeImageFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image file %s is empty", path)
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image file %s exceeds %d bytes", path, maxImageBytes)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
