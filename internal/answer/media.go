package answer

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/hyperjump/askta/internal/models"
)

// DescribeMedia turns an optional base64 image into a one-line descriptor for the prompt.
// Empty input yields "". A payload that does not decode yields a descriptor naming the error
// together with an error wrapping models.ErrMediaDecode; callers log it and continue.
func DescribeMedia(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", nil
	}
	data, err := decodeImage(encoded)
	if err != nil {
		return fmt.Sprintf("Error decoding image: %v", err), fmt.Errorf("%w: %w", models.ErrMediaDecode, err)
	}
	mime := http.DetectContentType(data)
	if strings.HasPrefix(mime, "image/") {
		return fmt.Sprintf("Image data received (size: %d bytes, type: %s).", len(data), mime), nil
	}
	return fmt.Sprintf("Image data received (size: %d bytes).", len(data)), nil
}

// decodeImage accepts standard or URL-safe base64, padded or not, optionally behind a data: URL prefix.
func decodeImage(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, "data:") {
		comma := strings.IndexByte(encoded, ',')
		if comma < 0 || !strings.HasSuffix(encoded[:comma], ";base64") {
			return nil, fmt.Errorf("data URL is not base64 encoded")
		}
		encoded = encoded[comma+1:]
	}
	encoded = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, encoded)
	var firstErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		data, err := enc.DecodeString(encoded)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
