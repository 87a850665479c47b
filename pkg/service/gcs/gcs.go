package gcs

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscore/pkg/utils/safe"
)

// Scheme is the URL prefix of Cloud Storage objects
const Scheme = "gs://"

var (
	ErrInvalidURL     = goerr.New("invalid Cloud Storage URL")
	ErrObjectNotFound = goerr.New("Cloud Storage object not found")
)

// IsURL reports whether s names a Cloud Storage object
func IsURL(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// ParseURL splits gs://bucket/path/to/object into bucket and object name
func ParseURL(s string) (bucket, object string, err error) {
	if !IsURL(s) {
		return "", "", goerr.Wrap(ErrInvalidURL, "missing gs:// scheme", goerr.V("url", s))
	}

	rest := strings.TrimPrefix(s, Scheme)
	bucket, object, found := strings.Cut(rest, "/")
	if !found || bucket == "" || object == "" {
		return "", "", goerr.Wrap(ErrInvalidURL, "URL must be gs://bucket/object", goerr.V("url", s))
	}
	return bucket, object, nil
}

// Reader reads whole objects from Cloud Storage
type Reader struct {
	client *storage.Client
}

// New creates a Reader with application default credentials
func New(ctx context.Context) (*Reader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	return &Reader{client: client}, nil
}

// ReadURL reads the object named by a gs:// URL
func (r *Reader) ReadURL(ctx context.Context, url string) ([]byte, error) {
	bucket, object, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	return r.Read(ctx, bucket, object)
}

// Read returns the full content of bucket/object
func (r *Reader) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	rd, err := r.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, goerr.Wrap(ErrObjectNotFound, "object does not exist",
				goerr.V("bucket", bucket),
				goerr.V("object", object))
		}
		return nil, goerr.Wrap(err, "failed to open object",
			goerr.V("bucket", bucket),
			goerr.V("object", object))
	}
	defer safe.Close(ctx, rd, "gs://"+bucket+"/"+object)

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object",
			goerr.V("bucket", bucket),
			goerr.V("object", object))
	}
	return data, nil
}

func (r *Reader) Close() error {
	if err := r.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close Cloud Storage client")
	}
	return nil
}
