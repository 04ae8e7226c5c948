package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Attribute names of a cache item in DynamoDB.
const (
	attrKey  = "cacheKey"
	attrData = "data"
	attrTTL  = "ttl"
)

// DynamoDBClient is the subset of the DynamoDB API the store uses.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore keeps cache entries in a DynamoDB table.
//
// Table schema:
//   - Partition key: cacheKey (string)
//   - data (binary): encoded payload
//   - ttl (number): expiry in seconds since epoch
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name cache \
//	  --attribute-definitions AttributeName=cacheKey,AttributeType=S \
//	  --key-schema AttributeName=cacheKey,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
//
// The ttl attribute may also be registered as the table's TTL attribute; rows
// DynamoDB has not reaped yet are still treated as expired by the reader.
type DynamoStore struct {
	client    DynamoDBClient
	tableName string
}

// NewDynamoStore creates a DynamoDB-backed store on an existing table.
func NewDynamoStore(client DynamoDBClient, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

// NewDynamoDBClient loads the default AWS configuration for region. A non-empty
// endpoint overrides the resolved service endpoint.
func NewDynamoDBClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func (s *DynamoStore) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrKey: &types.AttributeValueMemberS{Value: key},
	}
}

func (s *DynamoStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return Entry{}, false, storeErr("get", key, err)
	}
	if len(resp.Item) == 0 {
		return Entry{}, false, nil
	}
	e, err := decodeItem(resp.Item)
	if err != nil {
		return Entry{}, false, storeErr("get", key, err)
	}
	return e, true, nil
}

func (s *DynamoStore) Put(ctx context.Context, e Entry) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			attrKey:  &types.AttributeValueMemberS{Value: e.Key},
			attrData: &types.AttributeValueMemberB{Value: e.Payload},
			attrTTL:  &types.AttributeValueMemberN{Value: strconv.FormatInt(e.ExpiresAt, 10)},
		},
	})
	if err != nil {
		return storeErr("put", e.Key, err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.itemKey(key),
	})
	if err != nil {
		return storeErr("delete", key, err)
	}
	return nil
}

// ScanAll follows LastEvaluatedKey until the whole table has been read.
// An item whose data or ttl cannot be decoded is still returned, keyed and
// already expired, so invalidation can remove it.
func (s *DynamoStore) ScanAll(ctx context.Context) ([]Entry, error) {
	var out []Entry

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeErr("scan", "", err)
		}
		for _, item := range page.Items {
			e, err := decodeItem(item)
			if err != nil {
				if e.Key == "" {
					continue
				}
				e = Entry{Key: e.Key}
			}
			out = append(out, e)
		}
	}
	return out, nil
}

// decodeItem sets Key on the returned entry whenever the key attribute is
// readable, even if the rest of the item is not.
func decodeItem(item map[string]types.AttributeValue) (Entry, error) {
	keyAttr, ok := item[attrKey].(*types.AttributeValueMemberS)
	if !ok {
		return Entry{}, errors.New("invalid cacheKey attribute in DynamoDB")
	}
	e := Entry{Key: keyAttr.Value}

	switch data := item[attrData].(type) {
	case *types.AttributeValueMemberB:
		e.Payload = data.Value
	case *types.AttributeValueMemberS:
		e.Payload = []byte(data.Value)
	case nil:
	default:
		return Entry{Key: e.Key}, errors.New("invalid data attribute in DynamoDB")
	}

	if ttlAttr, ok := item[attrTTL].(*types.AttributeValueMemberN); ok {
		ttl, err := strconv.ParseInt(ttlAttr.Value, 10, 64)
		if err != nil {
			return Entry{Key: e.Key}, fmt.Errorf("failed to parse ttl: %w", err)
		}
		e.ExpiresAt = ttl
	}
	return e, nil
}

var _ Store = (*DynamoStore)(nil)
