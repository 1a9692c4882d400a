package dynamo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/quiz-signup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserInput_ReservesEmail(t *testing.T) {
	item, err := attributevalue.MarshalMap(&domain.User{UserID: "01HX", Email: "ann@x.com"})
	require.NoError(t, err)

	in := createUserInput("users", item, "ann@x.com")
	require.Len(t, in.TransactItems, 2)

	account := in.TransactItems[0].Put
	require.NotNil(t, account)
	assert.Equal(t, "users", aws.ToString(account.TableName))
	assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(account.ConditionExpression))
	assert.Equal(t, item, account.Item)

	guard := in.TransactItems[1].Put
	require.NotNil(t, guard)
	assert.Equal(t, "users", aws.ToString(guard.TableName))
	assert.Equal(t, "attribute_not_exists(#id)", aws.ToString(guard.ConditionExpression))
	assert.Equal(t, map[string]string{"#id": "user_id"}, guard.ExpressionAttributeNames)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "email#ann@x.com"}, guard.Item["user_id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "01HX"}, guard.Item["owner_id"])
	_, hasEmail := guard.Item["email"]
	assert.False(t, hasEmail)
}

func TestIsTxConditionFailed(t *testing.T) {
	cancelled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("None")},
			{Code: aws.String("ConditionalCheckFailed")},
		},
	}
	assert.True(t, isTxConditionFailed(fmt.Errorf("operation error: %w", cancelled)))

	throttled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: aws.String("ThrottlingError")}},
	}
	assert.False(t, isTxConditionFailed(throttled))
	assert.False(t, isTxConditionFailed(errors.New("network down")))
	assert.False(t, isTxConditionFailed(nil))
}
