package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Store talks to Cloudflare R2 through the S3 API. Public URLs use the
// domain from R2_PUBLIC_DOMAIN (a custom domain or the r2.dev URL enabled in
// the bucket settings).
type R2Store struct {
	S3           *s3.Client
	Bucket       string
	PublicDomain string
}

func NewR2Store(ctx context.Context) (*R2Store, error) {
	bucket := os.Getenv("R2_BUCKET")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")
	endpoint := os.Getenv("R2_ENDPOINT") // https://<account-id>.r2.cloudflarestorage.com
	domain := strings.TrimRight(os.Getenv("R2_PUBLIC_DOMAIN"), "/")

	if bucket == "" || accessKey == "" || secretKey == "" || endpoint == "" {
		return nil, fmt.Errorf("missing R2 env vars (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Store{S3: client, Bucket: bucket, PublicDomain: domain}, nil
}

func (r *R2Store) Upload(ctx context.Context, key string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	_, err = r.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentTypeFor(fh)),
	})
	if err != nil {
		return "", err
	}

	return r.publicURL(key), nil
}

func (r *R2Store) Delete(ctx context.Context, key string) error {
	_, err := r.S3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// KeyFromURL parses both custom-domain URLs (<domain>/<bucket>/<key>) and
// r2.dev style URLs (https://<bucket>.<account>.r2.dev/<key>).
func (r *R2Store) KeyFromURL(raw string) (string, error) {
	if r.PublicDomain != "" && strings.HasPrefix(raw, r.PublicDomain+"/"+r.Bucket+"/") {
		return strings.TrimPrefix(raw, r.PublicDomain+"/"+r.Bucket+"/"), nil
	}

	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(raw, prefix) {
			withoutScheme := strings.TrimPrefix(raw, prefix)
			slash := strings.Index(withoutScheme, "/")
			if slash == -1 {
				return "", fmt.Errorf("no object path in url")
			}
			return withoutScheme[slash+1:], nil
		}
	}

	return "", fmt.Errorf("not a recognised R2 public url")
}

func (r *R2Store) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", r.PublicDomain, r.Bucket, key)
}
