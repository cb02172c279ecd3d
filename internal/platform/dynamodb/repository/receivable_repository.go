package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	commonErrors "github.com/mwangi/biasharabot/backend/internal/domain/errors"
	"github.com/mwangi/biasharabot/backend/internal/domain/receivable"
	"github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/client"
)

// DynamoDBReceivableRepository implements the receivable.Repository interface
type DynamoDBReceivableRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBReceivableRepository creates a new DynamoDBReceivableRepository
func NewDynamoDBReceivableRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBReceivableRepository {
	return &DynamoDBReceivableRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// CreateReceivable creates a new receivable
func (r *DynamoDBReceivableRepository) CreateReceivable(ctx context.Context, recv *receivable.Receivable) error {
	if recv.ReceivableID == "" {
		recv.ReceivableID = uuid.NewString()
	}
	now := time.Now().UTC()
	if recv.CreatedAt.IsZero() {
		recv.CreatedAt = now
	}
	recv.UpdatedAt = now
	if recv.Status == "" {
		recv.Status = receivable.Pending
	}

	item, err := attributevalue.MarshalMap(recv)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal receivable", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: ownerPK(recv.OwnerID)}
	item["SK"] = &types.AttributeValueMemberS{Value: receivableSK(recv.ReceivableID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "receivable"}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewConflictError("receivable already exists")
		}
		return commonErrors.NewInternalError("failed to create receivable", err)
	}

	return nil
}

// GetReceivable retrieves a receivable by ID
func (r *DynamoDBReceivableRepository) GetReceivable(ctx context.Context, ownerID, receivableID string) (*receivable.Receivable, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: receivableSK(receivableID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get receivable", err)
	}
	if len(out.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("receivable not found")
	}

	var recv receivable.Receivable
	if err := attributevalue.UnmarshalMap(out.Item, &recv); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal receivable", err)
	}
	return &recv, nil
}

// ListReceivables lists an owner's receivables, optionally filtered by status
func (r *DynamoDBReceivableRepository) ListReceivables(ctx context.Context, ownerID string, statuses ...receivable.Status) ([]receivable.Receivable, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(ownerPK(ownerID))).
		And(expression.Key("SK").BeginsWith(skReceivablePrefix))

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if len(statuses) > 0 {
		filter := expression.Name("Status").Equal(expression.Value(statuses[0]))
		for _, status := range statuses[1:] {
			filter = filter.Or(expression.Name("Status").Equal(expression.Value(status)))
		}
		builder = builder.WithFilter(filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build receivable query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query receivables", err)
	}

	var recvs []receivable.Receivable
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &recvs); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal receivables", err)
	}
	return recvs, nil
}

// UpdateReceivable persists a receivable mutated by a payment application.
// The write is rejected when the stored copy is already in the terminal paid
// state, so a racing double payment can never push AmountPaid past Amount.
func (r *DynamoDBReceivableRepository) UpdateReceivable(ctx context.Context, recv *receivable.Receivable) error {
	recv.UpdatedAt = time.Now().UTC()

	item, err := attributevalue.MarshalMap(recv)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal receivable", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: ownerPK(recv.OwnerID)}
	item["SK"] = &types.AttributeValueMemberS{Value: receivableSK(recv.ReceivableID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "receivable"}

	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("PK")).
			And(expression.Name("Status").NotEqual(expression.Value(receivable.Paid)))).
		Build()
	if err != nil {
		return commonErrors.NewInternalError("failed to build receivable update", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewConflictError("receivable is already settled")
		}
		return commonErrors.NewInternalError("failed to update receivable", err)
	}

	return nil
}
