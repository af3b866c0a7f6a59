package s3

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type ClientConfig struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	// PublicURL is the base under which uploaded objects are served. When
	// empty it is derived from Endpoint and Bucket.
	PublicURL string
}

func (cfg ClientConfig) Enabled() bool {
	return cfg.Bucket != "" && cfg.AccessKey != "" && cfg.SecretKey != ""
}

func (cfg ClientConfig) objectURL(key string) string {
	base := cfg.PublicURL
	if base == "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return strings.TrimRight(base, "/") + "/" + key
}

func newAWSConfig(ctx context.Context, cfg ClientConfig) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.Endpoint))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}
