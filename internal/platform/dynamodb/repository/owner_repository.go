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
	"github.com/mwangi/biasharabot/backend/internal/domain/owner"
	"github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/client"
)

// DynamoDBOwnerRepository implements the owner.Repository interface
type DynamoDBOwnerRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBOwnerRepository creates a new DynamoDBOwnerRepository
func NewDynamoDBOwnerRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBOwnerRepository {
	return &DynamoDBOwnerRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// CreateOwner creates a new owner account
func (r *DynamoDBOwnerRepository) CreateOwner(ctx context.Context, o *owner.Owner) error {
	if o.OwnerID == "" {
		o.OwnerID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal owner", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: ownerPK(o.OwnerID)}
	item["SK"] = &types.AttributeValueMemberS{Value: skOwnerProfile}
	item["Type"] = &types.AttributeValueMemberS{Value: "owner"}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewConflictError("owner already exists")
		}
		return commonErrors.NewInternalError("failed to create owner", err)
	}

	return nil
}

// GetOwner retrieves an owner by ID
func (r *DynamoDBOwnerRepository) GetOwner(ctx context.Context, ownerID string) (*owner.Owner, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: skOwnerProfile},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get owner", err)
	}
	if len(out.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("owner not found")
	}

	var o owner.Owner
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal owner", err)
	}
	return &o, nil
}

// ListOwners scans for every owner profile. Called by the scheduled brief
// only; the item count is the number of accounts, not the ledger size.
func (r *DynamoDBOwnerRepository) ListOwners(ctx context.Context) ([]owner.Owner, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("Type").Equal(expression.Value("owner"))).
		Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build owner scan", err)
	}

	var owners []owner.Owner
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.table),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to scan owners", err)
		}

		var page []owner.Owner
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, commonErrors.NewInternalError("failed to unmarshal owners", err)
		}
		owners = append(owners, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	return owners, nil
}

// AdjustCashBalance atomically adds a signed delta to the cash balance
func (r *DynamoDBOwnerRepository) AdjustCashBalance(ctx context.Context, ownerID string, delta int64) error {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.
			Add(expression.Name("CashBalance"), expression.Value(delta)).
			Set(expression.Name("UpdatedAt"), expression.Value(time.Now().UTC().Format(time.RFC3339Nano)))).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return commonErrors.NewInternalError("failed to build cash update", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: skOwnerProfile},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("owner not found")
		}
		return commonErrors.NewInternalError("failed to adjust cash balance", err)
	}
	return nil
}
