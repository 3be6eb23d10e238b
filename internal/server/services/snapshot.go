package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/savekeeper/internal/common"
	"github.com/dmitrijs2005/savekeeper/internal/server/authz"
	sc "github.com/dmitrijs2005/savekeeper/internal/server/config"
	"github.com/dmitrijs2005/savekeeper/internal/server/models"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

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
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// SnapshotService archives copies of save payloads in object storage. The
// blobs travel through presigned URLs, so the server never proxies them.
type SnapshotService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewSnapshotService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *SnapshotService {
	return &SnapshotService{db: db, repomanager: m, config: config}
}

// GetRandomStorageKey builds a date-partitioned object key for a new archive.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("saves/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *SnapshotService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *SnapshotService) presignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *SnapshotService) presignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.PresignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// RequestUpload registers snapshot metadata for the save and returns a
// presigned PUT URL the caller uploads the archive to. Requires edit rights
// on the save.
func (s *SnapshotService) RequestUpload(ctx context.Context, actor authz.Actor, saveID string) (*models.Snapshot, string, error) {
	save, grants, err := s.fetchSave(ctx, saveID)
	if err != nil {
		return nil, "", err
	}
	if !authz.CanPerform(actor, authz.CapabilityUpdate, save, grants) {
		return nil, "", common.ErrForbidden
	}

	key := GetRandomStorageKey()
	url, err := s.presignedPutURL(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	snapshot := &models.Snapshot{
		ID:         uuid.NewString(),
		SaveID:     saveID,
		StorageKey: key,
		CreatedBy:  actor.ID,
	}
	created, err := s.repomanager.Snapshots(s.db).Create(ctx, snapshot)
	if err != nil {
		return nil, "", fmt.Errorf("error creating snapshot: %w", err)
	}
	return created, url, nil
}

// GetDownloadURL returns a presigned GET URL for a snapshot's archive.
// Requires view rights on the underlying save.
func (s *SnapshotService) GetDownloadURL(ctx context.Context, actor authz.Actor, snapshotID string) (string, error) {
	snapshot, err := s.repomanager.Snapshots(s.db).GetByID(ctx, snapshotID)
	if err != nil {
		return "", err
	}

	save, grants, err := s.fetchSave(ctx, snapshot.SaveID)
	if err != nil {
		return "", err
	}
	if !authz.CanPerform(actor, authz.CapabilityView, save, grants) {
		return "", common.ErrForbidden
	}

	url, err := s.presignedGetURL(ctx, snapshot.StorageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return url, nil
}

// ListForSave returns snapshot metadata for a save. Requires view rights.
func (s *SnapshotService) ListForSave(ctx context.Context, actor authz.Actor, saveID string) ([]*models.Snapshot, error) {
	save, grants, err := s.fetchSave(ctx, saveID)
	if err != nil {
		return nil, err
	}
	if !authz.CanPerform(actor, authz.CapabilityView, save, grants) {
		return nil, common.ErrForbidden
	}

	result, err := s.repomanager.Snapshots(s.db).ListBySave(ctx, saveID)
	if err != nil {
		return nil, fmt.Errorf("error listing snapshots: %w", err)
	}
	return result, nil
}

func (s *SnapshotService) fetchSave(ctx context.Context, id string) (*models.Save, []*models.ShareGrant, error) {
	save, err := s.repomanager.Saves(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	grants, err := s.repomanager.Shares(s.db).ListBySave(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading grants: %w", err)
	}
	return save, grants, nil
}
