package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"svault/config"
)

// S3Provider stores objects in a private S3 bucket and hands out
// presigned GET URLs for downloads.
type S3Provider struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Provider builds a provider from the application configuration.
// Static credentials are used when configured, otherwise the default
// AWS credential chain applies.
func NewS3Provider(ctx context.Context) (*S3Provider, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.AppConfig.AWSRegion),
	}
	if config.AppConfig.AWSAccessKeyID != "" && config.AppConfig.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				config.AppConfig.AWSAccessKeyID,
				config.AppConfig.AWSSecretAccessKey,
				"",
			),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg)
	return &S3Provider{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  config.AppConfig.S3Bucket,
	}, nil
}

func (p *S3Provider) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	return err
}

func (p *S3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (p *S3Provider) PresignedURL(ctx context.Context, key, filename, contentType, disposition string, expires time.Duration) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(p.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("%s; filename=%q", disposition, filename)),
		ResponseContentType:        aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
