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
	"github.com/mwangi/biasharabot/backend/internal/domain/payroll"
	"github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/client"
)

// DynamoDBStaffRepository implements the payroll.Repository interface
type DynamoDBStaffRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBStaffRepository creates a new DynamoDBStaffRepository
func NewDynamoDBStaffRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBStaffRepository {
	return &DynamoDBStaffRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// CreateStaff creates a new staff record
func (r *DynamoDBStaffRepository) CreateStaff(ctx context.Context, staff *payroll.StaffObligation) error {
	if staff.StaffID == "" {
		staff.StaffID = uuid.NewString()
	}
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	item, err := attributevalue.MarshalMap(staff)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal staff record", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: ownerPK(staff.OwnerID)}
	item["SK"] = &types.AttributeValueMemberS{Value: staffSK(staff.StaffID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "staff"}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewConflictError("staff record already exists")
		}
		return commonErrors.NewInternalError("failed to create staff record", err)
	}

	return nil
}

// GetStaff retrieves a staff record by ID
func (r *DynamoDBStaffRepository) GetStaff(ctx context.Context, ownerID, staffID string) (*payroll.StaffObligation, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: staffSK(staffID)},
		},
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to get staff record", err)
	}
	if len(out.Item) == 0 {
		return nil, commonErrors.NewNotFoundError("staff member not found")
	}

	var staff payroll.StaffObligation
	if err := attributevalue.UnmarshalMap(out.Item, &staff); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal staff record", err)
	}
	return &staff, nil
}

// ListStaff lists an owner's staff, optionally only active staff
func (r *DynamoDBStaffRepository) ListStaff(ctx context.Context, ownerID string, activeOnly bool) ([]payroll.StaffObligation, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(ownerPK(ownerID))).
		And(expression.Key("SK").BeginsWith(skStaffPrefix))

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if activeOnly {
		builder = builder.WithFilter(expression.Name("Active").Equal(expression.Value(true)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build staff query", err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to query staff", err)
	}

	var staff []payroll.StaffObligation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &staff); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal staff records", err)
	}
	return staff, nil
}

// SetAdvanceBalance sets the outstanding advance balance on a staff record
func (r *DynamoDBStaffRepository) SetAdvanceBalance(ctx context.Context, ownerID, staffID string, balance int64) error {
	return r.updateStaff(ctx, ownerID, staffID, expression.
		Set(expression.Name("AdvanceBalance"), expression.Value(balance)).
		Set(expression.Name("UpdatedAt"), expression.Value(time.Now().UTC().Format(time.RFC3339Nano))))
}

// DeactivateStaff soft-deactivates a staff member who has left
func (r *DynamoDBStaffRepository) DeactivateStaff(ctx context.Context, ownerID, staffID string) error {
	return r.updateStaff(ctx, ownerID, staffID, expression.
		Set(expression.Name("Active"), expression.Value(false)).
		Set(expression.Name("UpdatedAt"), expression.Value(time.Now().UTC().Format(time.RFC3339Nano))))
}

func (r *DynamoDBStaffRepository) updateStaff(ctx context.Context, ownerID, staffID string, update expression.UpdateBuilder) error {
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return commonErrors.NewInternalError("failed to build staff update", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ownerPK(ownerID)},
			"SK": &types.AttributeValueMemberS{Value: staffSK(staffID)},
		},
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewNotFoundError("staff member not found")
		}
		return commonErrors.NewInternalError("failed to update staff record", err)
	}
	return nil
}
