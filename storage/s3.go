package storage

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config enthält die Verbindungsdaten zu einem S3-kompatiblen Speicher.
type S3Config struct {
	URL    string
	Region string
	Key    string
	Secret string
	Bucket string
}

// S3Store kapselt Upload, Auflistung und Löschen in einem Bucket.
type S3Store struct {
	Client *s3.Client
	Bucket string
	URL    string
}

// NewS3Client erstellt einen S3-Client für einen S3-kompatiblen Endpoint.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.URL,
				SigningRegion:     cfg.Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

// NewS3Store erstellt Client und Store in einem Schritt.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &S3Store{Client: client, Bucket: cfg.Bucket, URL: cfg.URL}, nil
}

// Upload lädt data unter key hoch und gibt den Link zurück.
func (s *S3Store) Upload(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return ObjectLink(s.URL, s.Bucket, key), nil
}

// Rotate behält unter prefix nur die keep neuesten Objekte und löscht den Rest.
// Zurückgegeben werden die gelöschten Keys.
func (s *S3Store) Rotate(ctx context.Context, prefix string, keep int) ([]string, error) {
	var objects []types.Object
	paginator := s3.NewListObjectsV2Paginator(s.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list %s: %w", prefix, err)
		}
		objects = append(objects, page.Contents...)
	}

	var deleted []string
	for _, obj := range ExpiredObjects(objects, keep) {
		_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.Bucket),
			Key:    obj.Key,
		})
		if err != nil {
			return deleted, fmt.Errorf("s3 delete %s: %w", aws.ToString(obj.Key), err)
		}
		deleted = append(deleted, aws.ToString(obj.Key))
	}
	return deleted, nil
}

// ExpiredObjects sortiert neueste zuerst und liefert alles hinter den keep neuesten Objekten.
func ExpiredObjects(objects []types.Object, keep int) []types.Object {
	if keep < 0 {
		keep = 0
	}
	if len(objects) <= keep {
		return nil
	}
	sorted := make([]types.Object, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return aws.ToTime(sorted[i].LastModified).After(aws.ToTime(sorted[j].LastModified))
	})
	return sorted[keep:]
}

// ObjectLink baut den öffentlichen Pfad eines Objekts im Path-Style.
func ObjectLink(baseURL, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), bucket, key)
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".json"):
		return "application/json; charset=utf-8"
	case strings.HasSuffix(key, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(key, ".tar.gz"):
		return "application/gzip"
	}
	return "application/octet-stream"
}
