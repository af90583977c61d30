package bucket

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"
)

// S3 refuses more than this many keys per DeleteObjects call.
const deleteBatch = 1000

const settleTimeout = 2 * time.Minute

type S3Client interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
	PutPublicAccessBlock(ctx context.Context, params *s3.PutPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error)
	PutBucketEncryption(ctx context.Context, params *s3.PutBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.PutBucketEncryptionOutput, error)
	PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	PutBucketVersioning(ctx context.Context, params *s3.PutBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.PutBucketVersioningOutput, error)
	PutBucketCors(ctx context.Context, params *s3.PutBucketCorsInput, optFns ...func(*s3.Options)) (*s3.PutBucketCorsOutput, error)
	GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
	PutBucketTagging(ctx context.Context, params *s3.PutBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.PutBucketTaggingOutput, error)
	ListObjectVersions(ctx context.Context, params *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type Service struct {
	Client S3Client
}

type Definition struct {
	Name        string
	Region      string
	Versioned   bool
	CorsMethods []string
	CorsOrigins []string
	CorsHeaders []string
	Policy      string
	Tags        map[string]string
}

type State struct {
	Exists     bool
	Versioning types.BucketVersioningStatus
	Tags       map[string]string
}

func FromClients(s3Client S3Client) Service {
	return Service{
		Client: s3Client,
	}
}

// PutBucket converges the bucket: private, encrypted, TLS only, versioned as asked, CORS and tags.
func (s Service) PutBucket(ctx context.Context, d Definition) (State, error) {
	var apiErr smithy.APIError

	state, err := s.Inspect(ctx, d.Name)
	if err != nil {
		return State{}, err
	}

	if !state.Exists {
		log.Info().Str("bucket", d.Name).Str("region", d.Region).Msg("creating bucket")

		createBucketInput := &s3.CreateBucketInput{
			Bucket: aws.String(d.Name),
		}

		// us-east-1 is the one region that rejects an explicit location constraint
		if d.Region != "" && d.Region != "us-east-1" {
			createBucketInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(d.Region),
			}
		}

		_, err := s.Client.CreateBucket(ctx, createBucketInput)
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "BucketAlreadyOwnedByYou":
				break
			default:
				return State{}, err
			}
		} else if err != nil {
			return State{}, err
		}

		waiter := s3.NewBucketExistsWaiter(s.Client)
		if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(d.Name)}, settleTimeout); err != nil {
			return State{}, err
		}
	}

	if _, err := s.Client.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(d.Name),
		PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(true),
			BlockPublicPolicy:     aws.Bool(true),
			IgnorePublicAcls:      aws.Bool(true),
			RestrictPublicBuckets: aws.Bool(true),
		},
	}); err != nil {
		return State{}, err
	}

	if _, err := s.Client.PutBucketEncryption(ctx, &s3.PutBucketEncryptionInput{
		Bucket: aws.String(d.Name),
		ServerSideEncryptionConfiguration: &types.ServerSideEncryptionConfiguration{
			Rules: []types.ServerSideEncryptionRule{
				{
					ApplyServerSideEncryptionByDefault: &types.ServerSideEncryptionByDefault{
						SSEAlgorithm: types.ServerSideEncryptionAes256,
					},
				},
			},
		},
	}); err != nil {
		return State{}, err
	}

	if d.Policy != "" {
		if _, err := s.Client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(d.Name),
			Policy: aws.String(d.Policy),
		}); err != nil {
			return State{}, err
		}
	}

	// a bucket that was ever versioned can only be suspended, never unversioned again
	switch {
	case d.Versioned:
		err = s.PutVersioning(ctx, d.Name, true)
	case state.Versioning == types.BucketVersioningStatusEnabled:
		err = s.PutVersioning(ctx, d.Name, false)
	}
	if err != nil {
		return State{}, err
	}

	if _, err := s.Client.PutBucketCors(ctx, &s3.PutBucketCorsInput{
		Bucket: aws.String(d.Name),
		CORSConfiguration: &types.CORSConfiguration{
			CORSRules: []types.CORSRule{
				{
					AllowedMethods: d.CorsMethods,
					AllowedOrigins: d.CorsOrigins,
					AllowedHeaders: d.CorsHeaders,
				},
			},
		},
	}); err != nil {
		return State{}, err
	}

	if len(d.Tags) > 0 {
		var tagSet []types.Tag
		for _, key := range slices.Sorted(maps.Keys(d.Tags)) {
			tagSet = append(tagSet, types.Tag{Key: aws.String(key), Value: aws.String(d.Tags[key])})
		}

		if _, err := s.Client.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
			Bucket:  aws.String(d.Name),
			Tagging: &types.Tagging{TagSet: tagSet},
		}); err != nil {
			return State{}, err
		}
	}

	return s.Inspect(ctx, d.Name)
}

func (s Service) PutVersioning(ctx context.Context, name string, enabled bool) error {
	status := types.BucketVersioningStatusSuspended
	if enabled {
		status = types.BucketVersioningStatusEnabled
	}

	_, err := s.Client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(name),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: status,
		},
	})
	return err
}

// Inspect reports a missing bucket as State{Exists: false} rather than an error.
func (s Service) Inspect(ctx context.Context, name string) (State, error) {
	if _, err := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)}); err != nil {
		if missing(err) {
			return State{}, nil
		}
		return State{}, err
	}

	state := State{Exists: true, Tags: map[string]string{}}

	versioning, err := s.Client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(name)})
	if err != nil {
		return State{}, err
	}
	state.Versioning = versioning.Status

	tagging, err := s.Client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{Bucket: aws.String(name)})
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchTagSet" {
		return state, nil
	} else if err != nil {
		return State{}, err
	}

	for _, tag := range tagging.TagSet {
		state.Tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}

	return state, nil
}

// EmptyBucket deletes every object version and delete marker. It returns how many were removed.
func (s Service) EmptyBucket(ctx context.Context, name string) (int, error) {
	var removed int

	listObjectVersionsInput := &s3.ListObjectVersionsInput{
		Bucket: aws.String(name),
	}

	for {
		page, err := s.Client.ListObjectVersions(ctx, listObjectVersionsInput)
		if err != nil {
			if missing(err) {
				return removed, nil
			}
			return removed, err
		}

		var objects []types.ObjectIdentifier
		for _, version := range page.Versions {
			objects = append(objects, types.ObjectIdentifier{Key: version.Key, VersionId: version.VersionId})
		}
		for _, marker := range page.DeleteMarkers {
			objects = append(objects, types.ObjectIdentifier{Key: marker.Key, VersionId: marker.VersionId})
		}

		for batch := range slices.Chunk(objects, deleteBatch) {
			deleted, err := s.Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(name),
				Delete: &types.Delete{Objects: batch, Quiet: aws.Bool(true)},
			})
			if err != nil {
				return removed, err
			}

			if len(deleted.Errors) > 0 {
				failed := deleted.Errors[0]
				return removed, fmt.Errorf("delete %s@%s: %s", aws.ToString(failed.Key), aws.ToString(failed.VersionId), aws.ToString(failed.Message))
			}

			removed += len(batch)
		}

		if !aws.ToBool(page.IsTruncated) {
			break
		}

		listObjectVersionsInput.KeyMarker = page.NextKeyMarker
		listObjectVersionsInput.VersionIdMarker = page.NextVersionIdMarker
	}

	log.Info().Str("bucket", name).Int("removed", removed).Msg("emptied bucket")
	return removed, nil
}

// DeleteBucket treats an already missing bucket as deleted. The bucket must be empty.
func (s Service) DeleteBucket(ctx context.Context, name string) error {
	_, err := s.Client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)})
	if missing(err) {
		return nil
	}
	if err != nil {
		return err
	}

	waiter := s3.NewBucketNotExistsWaiter(s.Client)
	return waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)}, settleTimeout)
}

func missing(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}
