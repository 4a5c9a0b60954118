// Package storage keeps exported PDF reports in an S3-compatible object store
// so they can be shared through pre-signed links.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1.
type PutObjectOptions struct {
	Size               int64
	ContentType        string
	ContentDisposition string
	Metadata           map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the subset of an S3-compatible client the report publisher needs.
type Storage interface {
	// Put uploads an object under key from r.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL. A non-empty filename is
	// forced as the attachment name of the download.
	PresignGet(ctx context.Context, key, filename string, expiry time.Duration) (string, error)
}

// ReportKey returns the object key for a new export of documentID.
// Keys sort by export time within a document prefix.
func ReportKey(documentID string, at time.Time) string {
	id := strings.Trim(strings.ReplaceAll(documentID, "/", "_"), ".")
	if id == "" {
		id = "unknown"
	}
	return path.Join("reports", id, fmt.Sprintf("%s-%s.pdf", at.UTC().Format("20060102T150405Z"), uuid.NewString()[:8]))
}

// AttachmentDisposition builds a Content-Disposition header value for filename.
func AttachmentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
