// Package source provides re-openable input streams. The remap pipeline reads
// its input twice, so inputs are described by a Source that is opened once
// per pass rather than by a single io.Reader.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/bimmerbailey/remapper/internal/compress"
	"github.com/bimmerbailey/remapper/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrUnsupportedScheme is returned by Parse for URIs it cannot open.
var ErrUnsupportedScheme = errors.New("unsupported input scheme")

// ErrNotFound is returned when a remote object does not exist.
var ErrNotFound = errors.New("input not found")

// Source opens a fresh stream over the same input on every call.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// File is a local file, decompressed according to its extension.
type File struct {
	Path string
}

// Open opens the file.
func (f File) Open(ctx context.Context) (io.ReadCloser, error) {
	return compress.Open(f.Path)
}

// Name returns the file path.
func (f File) Name() string { return f.Path }

// S3 is an object in an S3-compatible store, decompressed according to the
// key extension.
type S3 struct {
	Bucket string
	Key    string
	client *minio.Client
}

// NewS3 creates an S3 source using the endpoint and credentials in cfg.
// Empty credentials select anonymous access.
func NewS3(bucket, key string, cfg config.S3Config) (*S3, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3{Bucket: bucket, Key: key, client: client}, nil
}

// Open starts a download of the object.
func (s *S3) Open(ctx context.Context) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.Bucket, s.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy; Stat surfaces a missing object before any decoder
	// tries to read a header from it.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("%s: %w", s.Name(), ErrNotFound)
		}
		return nil, err
	}

	return compress.Wrap(s.Key, obj)
}

// Name returns the s3:// URI of the object.
func (s *S3) Name() string { return "s3://" + s.Bucket + "/" + s.Key }

// Parse returns the Source for a local path, a file:// URI or an s3:// URI.
func Parse(uri string, cfg config.S3Config) (Source, error) {
	if !config.IsRemote(uri) {
		return File{Path: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid input %q: %w", uri, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("invalid input %q: empty path", uri)
		}
		return File{Path: u.Path}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("invalid input %q: want s3://bucket/key", uri)
		}
		return NewS3(u.Host, key, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}
