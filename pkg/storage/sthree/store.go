// Package sthree implements a storage.Bucket on top of S3 and S3-compatible object stores.
package sthree

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/oneconcern/datareset/pkg/storage"
	"github.com/oneconcern/datareset/pkg/storage/status"
)

// DefaultRegion is used when the credentials do not specify a region.
//
// "auto" is what Cloudflare R2 expects.
const DefaultRegion = "auto"

type Option func(*s3Bucket)

// Bucket sets the bucket name
func Bucket(bucket string) Option {
	return func(fs *s3Bucket) {
		fs.bucket = bucket
	}
}

// AWSConfig sets the configuration used to build the S3 client
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3Bucket) {
		fs.awsConfig = cfg
	}
}

// Client uses an already built S3 client. AWSConfig is ignored.
func Client(client s3iface.S3API) Option {
	return func(fs *s3Bucket) {
		fs.s3 = client
	}
}

// New S3 bucket
func New(option Option, options ...Option) (storage.Bucket, error) {
	fs := new(s3Bucket)
	option(fs)
	for _, apply := range options {
		apply(fs)
	}

	if fs.bucket == "" {
		return nil, status.ErrInvalidResource.WrapMessage("empty bucket name")
	}

	if fs.s3 == nil {
		sess, err := session.NewSession(fs.awsConfig)
		if err != nil {
			return nil, fmt.Errorf("creating S3 session: %w", err)
		}
		fs.s3 = s3.New(sess)
	}
	return fs, nil
}

// Config builds the client configuration for an S3-compatible endpoint with static credentials.
//
// A zero timeout leaves the HTTP client without timeout.
func Config(endpoint, region, accessKeyID, secretAccessKey string, timeout time.Duration) *aws.Config {
	if region == "" {
		region = DefaultRegion
	}
	cfg := aws.NewConfig().
		WithRegion(region).
		WithCredentials(credentials.NewStaticCredentials(accessKeyID, secretAccessKey, "")).
		WithS3ForcePathStyle(true).
		WithHTTPClient(&http.Client{Timeout: timeout})
	if endpoint != "" {
		cfg = cfg.WithEndpoint(endpoint)
	}
	return cfg
}

type s3Bucket struct {
	bucket    string
	awsConfig *aws.Config
	s3        s3iface.S3API
}

func (s *s3Bucket) List(ctx context.Context, token string, max int) (storage.Page, error) {
	params := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int64(int64(storage.ClampPageSize(max))),
	}
	if token != "" {
		params.ContinuationToken = aws.String(token)
	}

	out, err := s.s3.ListObjectsV2WithContext(ctx, params)
	if err != nil {
		return storage.Page{}, toSentinelErrors(err)
	}

	page := storage.Page{
		Objects:   make([]storage.Object, 0, len(out.Contents)),
		Truncated: aws.BoolValue(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		key := aws.StringValue(obj.Key)
		if key != "" {
			page.Objects = append(page.Objects, storage.Object{Key: key, Size: aws.Int64Value(obj.Size)})
		}
	}
	if page.Truncated {
		page.NextToken = aws.StringValue(out.NextContinuationToken)
		if page.NextToken == "" {
			return page, status.ErrStorageAPI.WrapMessage("truncated listing without continuation token")
		}
	}
	return page, nil
}

func (s *s3Bucket) DeleteBatch(ctx context.Context, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	if len(keys) > storage.MaxPageSize {
		return 0, fmt.Errorf("cannot delete %d keys in one batch (max: %d)", len(keys), storage.MaxPageSize)
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.s3.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{
			Objects: objects,
			Quiet:   aws.Bool(false),
		},
	})
	if err != nil {
		return 0, toSentinelErrors(err)
	}

	deleted := len(out.Deleted)
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, fmt.Sprintf("%s: %s (%s)", aws.StringValue(e.Key), aws.StringValue(e.Message), aws.StringValue(e.Code)))
		}
		return deleted, status.ErrPartialDelete.Wrap(errors.New(strings.Join(msgs, "; ")))
	}
	return deleted, nil
}

func (s *s3Bucket) String() string {
	return "s3@" + s.bucket
}
