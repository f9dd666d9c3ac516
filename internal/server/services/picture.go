package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/dmitrijs2005/civicfollow/internal/logging"
	sc "github.com/dmitrijs2005/civicfollow/internal/server/config"
	"github.com/dmitrijs2005/civicfollow/internal/server/models"
	"github.com/dmitrijs2005/civicfollow/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PresignExpiry is how long an upload URL stays valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// Upload is a presigned PUT target for a new profile picture.
type Upload struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// PictureService hands out presigned upload URLs for profile pictures on an
// S3-compatible store and records the resulting object URL on the account.
type PictureService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	config       *sc.Config
	logger       logging.Logger
	queryTimeout time.Duration
}

func NewPictureService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *PictureService {
	return &PictureService{
		db:           db,
		repomanager:  m,
		config:       cfg,
		logger:       logger.With("module", "pictures"),
		queryTimeout: cfg.QueryTimeout,
	}
}

func keyPrefix(accountID uuid.UUID) string {
	return fmt.Sprintf("pictures/%s/", accountID)
}

// StorageKey returns a fresh object key owned by accountID.
func StorageKey(accountID uuid.UUID) string {
	return keyPrefix(accountID) + uuid.NewString()
}

func (s *PictureService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a key under pictures/<account id>/ and a presigned
// PUT URL for it.
func (s *PictureService) PresignUpload(ctx context.Context, accountID uuid.UUID) (*Upload, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := StorageKey(accountID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return nil, err
	}

	return &Upload{Key: key, URL: req.URL, ExpiresAt: time.Now().Add(PresignExpiry)}, nil
}

// ObjectURL is the path-style public URL of key in the configured bucket.
func (s *PictureService) ObjectURL(key string) string {
	base := strings.TrimRight(s.config.S3BaseEndpoint, "/")
	return base + "/" + s.config.S3Bucket + "/" + key
}

// Attach points the account's picture at key, which must have been issued
// to the same account. Returns (nil, nil) when the account is unknown.
func (s *PictureService) Attach(ctx context.Context, accountID uuid.UUID, key string) (*models.Account, error) {
	if !strings.HasPrefix(key, keyPrefix(accountID)) || len(key) == len(keyPrefix(accountID)) {
		return nil, fmt.Errorf("%w: key %q does not belong to account %s", common.ErrorInvalidInput, key, accountID)
	}

	url := s.ObjectURL(key)
	return s.setPicture(ctx, accountID, &url)
}

// Detach clears the account's picture. The stored object is left in place.
func (s *PictureService) Detach(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	return s.setPicture(ctx, accountID, nil)
}

func (s *PictureService) setPicture(ctx context.Context, accountID uuid.UUID, url *string) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	a, err := nilIfNotFound(s.repomanager.Users(s.db).UpdatePicture(ctx, accountID, url))
	if err != nil {
		return nil, fmt.Errorf("update picture: %w", err)
	}
	if a != nil {
		s.logger.Info(ctx, "picture updated", "account_id", accountID, "attached", url != nil)
	}
	return a, nil
}
