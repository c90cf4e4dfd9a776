package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/quillgate/quillgate/internal/config"
)

// loadAWSConfig resolves the region and the default credential chain shared
// by the model client and the CloudWatch sink, bounded by STARTUP_TIMEOUT.
func loadAWSConfig(cfg *config.Config) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StartupTimeout)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}
