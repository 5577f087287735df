// Package backup copies wallet exports to an S3 compatible bucket.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cc "github.com/dmitrijs2005/zviewer/internal/client/config"
	"github.com/dmitrijs2005/zviewer/internal/client/services"
	"github.com/dmitrijs2005/zviewer/internal/logging"
	"github.com/dmitrijs2005/zviewer/internal/netx"
)

var (
	ErrNotConfigured = errors.New("backup bucket is not configured")
	ErrMismatch      = errors.New("uploaded object differs from export")
)

const linkTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	download = netx.Download
)

// Object is one uploaded file and a short lived download link.
type Object struct {
	Key string
	URL string
}

type Result struct {
	Notes  Object
	Ledger Object
}

type Service struct {
	config cc.S3Config
	logger logging.Logger
	http   *http.Client
	now    func() time.Time
}

func NewService(config cc.S3Config, logger logging.Logger) *Service {
	return &Service{
		config: config,
		logger: logger,
		http:   &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}
}

// Configured reports whether a bucket is set.
func (s *Service) Configured() bool { return s.config.Bucket != "" }

// StorageKey places a wallet export file under a date prefix.
func StorageKey(walletID string, t time.Time, suffix string) string {
	t = t.UTC()
	return fmt.Sprintf("wallets/%s/%04d/%02d/%02d/%s-%s",
		walletID, t.Year(), t.Month(), t.Day(), t.Format("20060102T150405Z"), suffix)
}

func (s *Service) getClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.config.Region)}
	if s.config.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.AccessKey,
			s.config.SecretKey,
			"",
		)))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.config.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Upload stores both files of exp and returns presigned GET links to them.
func (s *Service) Upload(ctx context.Context, exp *services.Export) (*Result, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	presignClient := newS3PresignClient(client)

	now := s.now()
	notes, err := s.put(ctx, client, presignClient, StorageKey(exp.WalletID, now, "notes.json"), exp.NotesJSON, "application/json")
	if err != nil {
		return nil, err
	}
	ledger, err := s.put(ctx, client, presignClient, StorageKey(exp.WalletID, now, "ledger.csv"), exp.LedgerCSV, "text/csv")
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "export uploaded", "wallet", exp.WalletID, "bucket", s.config.Bucket, "notes", notes.Key, "ledger", ledger.Key)
	return &Result{Notes: notes, Ledger: ledger}, nil
}

func (s *Service) put(ctx context.Context, client *s3.Client, pc *s3.PresignClient, key string, body []byte, contentType string) (Object, error) {
	bucket := s.config.Bucket

	_, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("upload %s: %w", key, err)
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(linkTTL))
	if err != nil {
		return Object{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return Object{Key: key, URL: req.URL}, nil
}

// Verify reads both objects of res back through their links and compares
// them with exp.
func (s *Service) Verify(ctx context.Context, res *Result, exp *services.Export) error {
	checks := []struct {
		obj  Object
		want []byte
	}{
		{res.Notes, exp.NotesJSON},
		{res.Ledger, exp.LedgerCSV},
	}
	for _, c := range checks {
		got, err := download(ctx, s.http, c.obj.URL)
		if err != nil {
			return fmt.Errorf("verify %s: %w", c.obj.Key, err)
		}
		if !bytes.Equal(got, c.want) {
			return fmt.Errorf("%w: %s", ErrMismatch, c.obj.Key)
		}
	}
	return nil
}
