// Package awshelper provides a definition source that computes the S3 backend and AWS provider configuration for a
// run. It is just another block source feeding the render pipeline: its blocks land in mergeable categories, so
// user sources can add their own terraform/provider settings alongside it.
package awshelper

import (
	"context"
	"fmt"

	"dario.cat/mergo"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/mitchellh/mapstructure"

	"github.com/gruntwork-io/terragen/block"
	"github.com/gruntwork-io/terragen/internal/errors"
	"github.com/gruntwork-io/terragen/source"
)

// SourceName is the definition source name the backend helper registers under.
const SourceName = "backend.tf"

const defaultStateKey = "terraform.tfstate"

// S3BackendConfig configures the S3 backend block. Zero fields are filled in from the ambient AWS configuration:
// the region from the AWS config resolution chain, and the bucket from the caller's account ID.
type S3BackendConfig struct {
	Bucket        string `mapstructure:"bucket"`
	Key           string `mapstructure:"key"`
	Region        string `mapstructure:"region"`
	Profile       string `mapstructure:"profile"`
	DynamoDBTable string `mapstructure:"dynamodb_table"`
	Encrypt       *bool  `mapstructure:"encrypt"`

	// Extra is merged over the computed backend settings, for backend arguments without a dedicated field, e.g.
	// kms_key_id.
	Extra map[string]any `mapstructure:",remain"`
}

// ConfigFromMap decodes a flat key=value map, e.g. collected from --backend-config CLI flags, into an
// S3BackendConfig. Input is decoded weakly, so string values from the command line fit typed fields like encrypt.
func ConfigFromMap(raw map[string]any) (*S3BackendConfig, error) {
	backendConfig := new(S3BackendConfig)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           backendConfig,
	})
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	return backendConfig, nil
}

// NewBackendDefinition returns a definition source contributing the terraform backend block and the aws provider
// block for this run, plus "region" and "account_id" exports for other sources to consume.
func NewBackendDefinition(backendConfig *S3BackendConfig) *source.Definition {
	return &source.Definition{
		Name: SourceName,
		Kind: source.KindConfig,
		New: func() source.BlockSource {
			return source.NewGenerator(func(s *source.Stream) error {
				return produce(s, backendConfig)
			})
		},
	}
}

func produce(s *source.Stream, backendConfig *S3BackendConfig) error {
	ctx := context.Background()

	region, accountID, err := resolveSession(ctx, backendConfig)
	if err != nil {
		return err
	}

	settings, err := backendSettings(backendConfig, region, accountID)
	if err != nil {
		return err
	}

	s.Block("terraform", "", "", block.MustBodyFromGo(map[string]any{
		"backend": map[string]any{"s3": settings},
	}))

	providerBody := map[string]any{"region": region}
	if backendConfig.Profile != "" {
		providerBody["profile"] = backendConfig.Profile
	}

	s.Block("provider", "", "aws", block.MustBodyFromGo(providerBody))

	s.Export("region", block.MustBodyFromGo(region))
	s.Export("account_id", block.MustBodyFromGo(accountID))

	return nil
}

// resolveSession resolves the region and account ID through the standard AWS configuration chain: explicit config,
// then environment, then shared config files, then the instance metadata service.
func resolveSession(ctx context.Context, backendConfig *S3BackendConfig) (string, string, error) {
	var optFns []func(*config.LoadOptions) error

	if backendConfig.Region != "" {
		optFns = append(optFns, config.WithRegion(backendConfig.Region))
	}

	if backendConfig.Profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(backendConfig.Profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return "", "", errors.WithStackTraceAndPrefix(err, "error loading AWS config")
	}

	if awsConfig.Region == "" {
		return "", "", errors.WithStackTrace(MissingRegionError{})
	}

	identity, err := sts.NewFromConfig(awsConfig).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", "", errors.WithStackTraceAndPrefix(err, "error validating AWS credentials")
	}

	return awsConfig.Region, *identity.Account, nil
}

// backendSettings computes the backend block body: conventional defaults, the explicit config on top, and any extra
// settings merged over both.
func backendSettings(backendConfig *S3BackendConfig, region, accountID string) (map[string]any, error) {
	settings := map[string]any{
		"bucket":  fmt.Sprintf("terraform-state-%s-%s", accountID, region),
		"key":     defaultStateKey,
		"region":  region,
		"encrypt": true,
	}

	if backendConfig.Bucket != "" {
		settings["bucket"] = backendConfig.Bucket
	}

	if backendConfig.Key != "" {
		settings["key"] = backendConfig.Key
	}

	if backendConfig.Encrypt != nil {
		settings["encrypt"] = *backendConfig.Encrypt
	}

	if backendConfig.Profile != "" {
		settings["profile"] = backendConfig.Profile
	}

	if backendConfig.DynamoDBTable != "" {
		settings["dynamodb_table"] = backendConfig.DynamoDBTable
	}

	if err := mergo.Merge(&settings, backendConfig.Extra, mergo.WithOverride); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	return settings, nil
}
