package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/quiz-signup/internal/domain"
)

// PendingRepo stores pending signups in DynamoDB.
// PK: pending_key. Writes are conditional on the version attribute; expires_at is the table TTL.
type PendingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPendingRepo(client *dynamodb.Client, tableName string) *PendingRepo {
	return &PendingRepo{client: client, tableName: tableName}
}

func (r *PendingRepo) Get(ctx context.Context, key string) (*domain.PendingSignup, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(attrPendingKey, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pending signup not found: %w", domain.ErrNotFound)
	}
	var p domain.PendingSignup
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Put replaces the whole record. expectedVersion 0 requires the key to be absent.
func (r *PendingRepo) Put(ctx context.Context, p *domain.PendingSignup, expectedVersion int64) error {
	next := *p
	next.Version = expectedVersion + 1
	item, err := attributevalue.MarshalMap(&next)
	if err != nil {
		return fmt.Errorf("marshal pending signup: %w", err)
	}

	cond, names, values := versionCondition(expectedVersion)
	input := &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String(cond),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		input.ExpressionAttributeValues = values
	}
	if _, err := r.client.PutItem(ctx, input); err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("pending signup %s changed concurrently: %w", p.Key, domain.ErrConflict)
		}
		return err
	}
	p.Version = next.Version
	return nil
}

// Update merges updates into an existing record whose version equals expectedVersion.
func (r *PendingRepo) Update(ctx context.Context, key string, expectedVersion int64, updates map[string]interface{}) error {
	if expectedVersion == 0 {
		return fmt.Errorf("update of unversioned pending signup %s: %w", key, domain.ErrConflict)
	}
	fields := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		fields[k] = v
	}
	fields[attrVersion] = expectedVersion + 1

	ue, err := buildUpdateExpr(fields)
	if err != nil {
		return err
	}
	cond, names, values := versionCondition(expectedVersion)
	for k, v := range names {
		ue.Names[k] = v
	}
	for k, v := range values {
		ue.Values[k] = v
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(attrPendingKey, key),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String(cond),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionFailed(err) {
		return fmt.Errorf("pending signup %s changed concurrently: %w", key, domain.ErrConflict)
	}
	return err
}

func (r *PendingRepo) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(attrPendingKey, key),
	})
	return err
}

// versionCondition guards a write on the stored version.
func versionCondition(expected int64) (string, map[string]string, map[string]types.AttributeValue) {
	if expected == 0 {
		return "attribute_not_exists(#pk)", map[string]string{"#pk": attrPendingKey}, nil
	}
	return "#ver = :expected",
		map[string]string{"#ver": attrVersion},
		map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		}
}
