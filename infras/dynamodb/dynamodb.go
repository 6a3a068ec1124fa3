package dynamodb

import (
	"context"
	"errors"
	"homefix/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

const (
	tagKey                  = "db"
	reasonConditionalFailed = "ConditionalCheckFailed"
)

// New builds a DynamoDB client. Static credentials are only used when configured, which is
// how DynamoDB Local is reached during development.
func New(config *config.Config) *dynamodb.Client {
	cfg := config.DB.DynamoDB

	loadOpts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS configuration")
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	log.Info().Str("region", cfg.Region).Str("endpoint", cfg.Endpoint).Msg("DynamoDB client initialized")

	return client
}

// MarshalMap encodes a db-tagged model into a DynamoDB item.
func MarshalMap(in any) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMapWithOptions(in, func(o *attributevalue.EncoderOptions) { //nolint:wrapcheck
		o.TagKey = tagKey
	})
}

// UnmarshalMap decodes a DynamoDB item into a db-tagged model.
func UnmarshalMap(item map[string]types.AttributeValue, out any) error {
	return attributevalue.UnmarshalMapWithOptions(item, out, func(o *attributevalue.DecoderOptions) { //nolint:wrapcheck
		o.TagKey = tagKey
	})
}

func UnmarshalListOfMaps(items []map[string]types.AttributeValue, out any) error {
	return attributevalue.UnmarshalListOfMapsWithOptions(items, out, func(o *attributevalue.DecoderOptions) { //nolint:wrapcheck
		o.TagKey = tagKey
	})
}

func Marshal(in any) (types.AttributeValue, error) {
	return attributevalue.MarshalWithOptions(in, func(o *attributevalue.EncoderOptions) { //nolint:wrapcheck
		o.TagKey = tagKey
	})
}

func StringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// IsConditionFailed reports whether a single-item write was rejected by its condition.
func IsConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException

	return errors.As(err, &cfe)
}

// FailedConditions returns the positions of transaction items whose condition failed.
// ok is false when err is not a cancelled transaction.
func FailedConditions(err error) (positions []int, ok bool) {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil, false
	}

	for index, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) == reasonConditionalFailed {
			positions = append(positions, index)
		}
	}

	return positions, true
}
