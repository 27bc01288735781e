package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/daniilsolovey/blog-catalog/internal/catalog"
)

// S3API is the part of the S3 client the source needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads the posts file from an S3 (or S3 compatible) bucket.
type S3 struct {
	client S3API
	bucket string
	key    string
	format Format
}

func NewS3(client S3API, bucket, key string, format Format) *S3 {
	if format == "" {
		format = FormatFromPath(key)
	}
	return &S3{client: client, bucket: bucket, key: key, format: format}
}

func (s *S3) Name() string { return "s3" }

func (s *S3) Posts(ctx context.Context) ([]catalog.Record, error) {
	location := "s3://" + s.bucket + "/" + s.key

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, &FetchError{URL: location, StatusCode: http.StatusNotFound, Err: err}
		}
		return nil, &FetchError{URL: location, Err: err}
	}
	defer output.Body.Close()

	body, err := readPayload(output.Body, maxPayloadBytes)
	if err != nil {
		return nil, &FetchError{URL: location, Err: fmt.Errorf("failed to read object: %w", err)}
	}

	return Decode(s.format, body)
}
