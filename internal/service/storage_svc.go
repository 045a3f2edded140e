package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ==================== 存储服务 ====================

// StorageProvider 媒体文件存储接口
type StorageProvider interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// StorageConfig 存储配置
type StorageConfig struct {
	Provider string // s3 / local

	// 本地存储
	LocalDir     string
	LocalBaseURL string

	// S3
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3CDNDomain string
}

// NewStorageProvider 按配置创建存储实现
func NewStorageProvider(cfg StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return newS3Storage(cfg)
	case "local", "":
		return newLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储类型: %s", cfg.Provider)
	}
}

// ==================== 本地存储 ====================

type localStorage struct {
	baseDir string
	baseURL string
}

func newLocalStorage(cfg StorageConfig) (*localStorage, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "./media"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建本地存储目录失败: %v", err)
	}
	baseURL := strings.TrimRight(cfg.LocalBaseURL, "/")
	if baseURL == "" {
		baseURL = "/media"
	}
	return &localStorage{baseDir: dir, baseURL: baseURL}, nil
}

func (s *localStorage) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("创建子目录失败: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %v", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	return os.Remove(filepath.Join(s.baseDir, key))
}

// ==================== S3 存储 ====================

type s3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
}

func newS3Storage(cfg StorageConfig) (*s3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 存储需要配置 bucket")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %v", err)
	}

	return &s3Storage{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.S3Bucket,
		region:    cfg.S3Region,
		cdnDomain: cfg.S3CDNDomain,
	}, nil
}

func (s *s3Storage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传 S3 失败: %v", err)
	}

	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// ==================== 存储服务封装 ====================

// StorageService 在存储实现之上提供 base64 落盘等便捷方法
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(provider StorageProvider) *StorageService {
	return &StorageService{Provider: provider}
}

// SaveBase64 解码 base64 图片数据并上传，返回公开访问 URL
func (s *StorageService) SaveBase64(ctx context.Context, b64 string, prefix string) (string, error) {
	// 兼容 data URI 前缀
	if idx := strings.Index(b64, ","); idx != -1 && strings.HasPrefix(b64, "data:") {
		b64 = b64[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", fmt.Errorf("解码 base64 数据失败: %v", err)
	}

	key := fmt.Sprintf("%s/%s.png", prefix, uuid.New().String())
	url, err := s.Provider.Upload(ctx, key, data, "image/png")
	if err != nil {
		return "", err
	}

	log.Printf("[Storage] 图片已保存: %s (%d bytes)", url, len(data))
	return url, nil
}
