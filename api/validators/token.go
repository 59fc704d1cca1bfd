package validators

import (
	"errors"
	"strings"
)

var ErrInvalidToken = errors.New("invalid auth token")

// ExtractBearerToken pulls the raw token out of an Authorization header
// value. The signature has no opinion on the token format; callers hand
// it to the JWT layer.
func ExtractBearerToken(raw string) (string, error) {
	header := strings.TrimSpace(raw)
	if header == "" {
		return "", ErrInvalidToken
	}
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		header = strings.TrimSpace(header[7:])
	}
	if header == "" {
		return "", ErrInvalidToken
	}
	return header, nil
}
