// Package fsxs3 implements fsx.FileSystem on top of an S3 bucket.
package fsxs3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3FileSystem struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3FileSystem(client *s3.Client, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (f *S3FileSystem) key(p string) string {
	if f.prefix == "" {
		return strings.TrimPrefix(p, "/")
	}
	return path.Join(f.prefix, strings.TrimPrefix(p, "/"))
}

func (f *S3FileSystem) Join(elem ...string) string { return path.Join(elem...) }

func (f *S3FileSystem) WriteFile(ctx context.Context, p string, data []byte) error {
	return f.WriteFileStream(ctx, p, bytes.NewReader(data))
}

func (f *S3FileSystem) WriteFileStream(ctx context.Context, p string, r io.Reader) error {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
		Body:   r,
	})
	if err != nil {
		return errx.Wrap(err, "failed to put object", errx.TypeExternal).WithDetail("key", f.key(p))
	}
	return nil
}

func (f *S3FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	rc, err := f.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (f *S3FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, errx.New("file not found", errx.TypeNotFound).WithDetail("key", f.key(p))
		}
		return nil, errx.Wrap(err, "failed to get object", errx.TypeExternal)
	}
	return out.Body, nil
}

func (f *S3FileSystem) DeleteFile(ctx context.Context, p string) error {
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return errx.Wrap(err, "failed to delete object", errx.TypeExternal)
	}
	return nil
}

func (f *S3FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, errx.Wrap(err, "failed to head object", errx.TypeExternal)
	}
	return true, nil
}
