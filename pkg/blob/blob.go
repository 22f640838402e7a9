// Package blob stores catalog entry images. The server writes uploads here
// and records only the returned URL; deletes are best effort because a
// leaked image is an inconsistency the catalog can live with.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("object not found")

// Storage persists uploaded images under opaque keys.
type Storage interface {
	// Put stores the object and returns the public URL to reference it by.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)

	// Delete removes the object. Deleting an absent key returns ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// Config describes an S3-compatible backend. An empty Bucket means no
// backend is configured and image uploads are unavailable.
type Config struct {
	Bucket        string
	Region        string
	Endpoint      string // for MinIO and other S3-compatible stores
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // prefix of the URLs handed to clients
}

// Enabled reports whether a backend is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

// Validate checks that an enabled config is complete.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Region == "" && c.Endpoint == "" {
		return errors.New("storage: region or endpoint required")
	}
	if c.PublicBaseURL == "" {
		return errors.New("storage: public base URL required")
	}
	return nil
}

// RandomKey builds a date-partitioned object key for an upload.
func RandomKey(prefix string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%v", prefix, d.Year(), d.Month(), uuid.New())
}

// sanitizeKey prevents path traversal.
func sanitizeKey(key string) string {
	key = filepath.ToSlash(key)
	key = strings.TrimLeft(key, "/")
	parts := strings.Split(key, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, "/")
}
