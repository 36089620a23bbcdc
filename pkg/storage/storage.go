// Package storage is the object store gateway: presigned uploads, public
// read URLs, direct writes and size checks.
package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"shortdrama/constant"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

const PresignExpiry = 10 * time.Minute

type Gateway interface {
	PresignPut(ctx context.Context, bucket, key string) (string, error)
	PublicURL(bucket, key string) string
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
	// Stat returns the object size, or ErrObjectNotFound.
	Stat(ctx context.Context, bucket, key string) (int64, error)
}

// PublicURL builds <base>/<bucket>/<key> with every path segment escaped.
// Seeded static assets under public/ are served by the API itself.
func PublicURL(base, bucket, key string) string {
	if strings.HasPrefix(key, constant.PublicKeyPrefix) {
		return "/" + key
	}
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return base + "/" + bucket + "/" + strings.Join(parts, "/")
}
