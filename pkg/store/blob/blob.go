// Package blob is the handler's view of the Object Store.
package blob

import (
	"context"
	"io"
	"time"

	"github.com/linecard/filelink/pkg/fault"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type S3Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectVersions(ctx context.Context, params *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Store struct {
	Client   S3Client
	Bucket   string
	uploader *manager.Uploader
}

// Object describes a stored blob. VersionId is empty on buckets that were never versioned.
type Object struct {
	Key         string `json:"key"`
	VersionId   string `json:"versionId,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Size        int64  `json:"size"`
}

// Blob is an open object body. The caller closes it.
type Blob struct {
	Object
	Body io.ReadCloser
}

type Version struct {
	VersionId    string    `json:"versionId"`
	Latest       bool      `json:"latest"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

func FromClient(client S3Client, bucket string) Store {
	return Store{
		Client:   client,
		Bucket:   bucket,
		uploader: manager.NewUploader(client),
	}
}

// Put writes body under key. Large bodies go up as multipart uploads.
func (s Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (Object, error) {
	ctx, span := otel.Tracer("").Start(ctx, "blob.Put")
	defer span.End()

	span.SetAttributes(attribute.String("filelink.blob.key", key))

	counter := &countingReader{Reader: body}

	uploaded, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        counter,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		err = fault.Classify(err)
		span.SetStatus(codes.Error, err.Error())
		return Object{}, err
	}

	log.Debug().Str("bucket", s.Bucket).Str("key", key).Int64("size", counter.n).Msg("stored blob")

	return Object{
		Key:         key,
		VersionId:   aws.ToString(uploaded.VersionID),
		ContentType: contentType,
		Size:        counter.n,
	}, nil
}

// Get opens the object under key. An empty versionId reads the latest version.
func (s Store) Get(ctx context.Context, key, versionId string) (Blob, error) {
	ctx, span := otel.Tracer("").Start(ctx, "blob.Get")
	defer span.End()

	getObjectInput := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}

	if versionId != "" {
		getObjectInput.VersionId = aws.String(versionId)
	}

	object, err := s.Client.GetObject(ctx, getObjectInput)
	if err != nil {
		err = fault.Classify(err)
		span.SetStatus(codes.Error, err.Error())
		return Blob{}, err
	}

	return Blob{
		Object: Object{
			Key:         key,
			VersionId:   aws.ToString(object.VersionId),
			ContentType: aws.ToString(object.ContentType),
			Size:        aws.ToInt64(object.ContentLength),
		},
		Body: object.Body,
	}, nil
}

// Versions lists every stored version of exactly key, newest first as S3 orders them.
func (s Store) Versions(ctx context.Context, key string) ([]Version, error) {
	ctx, span := otel.Tracer("").Start(ctx, "blob.Versions")
	defer span.End()

	versions := []Version{}

	listObjectVersionsInput := &s3.ListObjectVersionsInput{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(key),
	}

	for {
		page, err := s.Client.ListObjectVersions(ctx, listObjectVersionsInput)
		if err != nil {
			err = fault.Classify(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		for _, version := range page.Versions {
			// the prefix also matches longer keys such as <key>0
			if aws.ToString(version.Key) != key {
				continue
			}

			versions = append(versions, Version{
				VersionId:    aws.ToString(version.VersionId),
				Latest:       aws.ToBool(version.IsLatest),
				Size:         aws.ToInt64(version.Size),
				LastModified: aws.ToTime(version.LastModified),
			})
		}

		if !aws.ToBool(page.IsTruncated) {
			break
		}

		listObjectVersionsInput.KeyMarker = page.NextKeyMarker
		listObjectVersionsInput.VersionIdMarker = page.NextVersionIdMarker
	}

	return versions, nil
}

// Delete removes the latest version of key. On a versioned bucket this leaves a delete marker.
func (s Store) Delete(ctx context.Context, key string) error {
	ctx, span := otel.Tracer("").Start(ctx, "blob.Delete")
	defer span.End()

	if _, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}); err != nil {
		err = fault.Classify(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

type countingReader struct {
	io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}
