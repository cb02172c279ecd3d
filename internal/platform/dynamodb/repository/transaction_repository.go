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
	ulid "github.com/oklog/ulid/v2"

	commonErrors "github.com/mwangi/biasharabot/backend/internal/domain/errors"
	"github.com/mwangi/biasharabot/backend/internal/domain/ledger"
	"github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/client"
)

// DynamoDBTransactionRepository implements the ledger.Repository interface
type DynamoDBTransactionRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBTransactionRepository creates a new DynamoDBTransactionRepository
func NewDynamoDBTransactionRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBTransactionRepository {
	return &DynamoDBTransactionRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// CreateTransaction appends one record to the owner's ledger. The ledger is
// append-only; there is no update or delete path.
func (r *DynamoDBTransactionRepository) CreateTransaction(ctx context.Context, record *ledger.TransactionRecord) error {
	if record.TransactionID == "" {
		record.TransactionID = ulid.Make().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal transaction", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: ownerPK(record.OwnerID)}
	item["SK"] = &types.AttributeValueMemberS{Value: transactionSK(record.TransactionID)}
	item["Type"] = &types.AttributeValueMemberS{Value: "transaction"}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var condCheckErr *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckErr) {
			return commonErrors.NewConflictError("transaction already exists")
		}
		return commonErrors.NewInternalError("failed to create transaction", err)
	}

	return nil
}

// ListTransactions returns the owner's transactions with
// from <= occurredAt <= to, in sort-key (creation) order.
func (r *DynamoDBTransactionRepository) ListTransactions(ctx context.Context, ownerID string, from, to time.Time) ([]ledger.TransactionRecord, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(ownerPK(ownerID))).
		And(expression.Key("SK").BeginsWith(skTransactionPrefix))
	filter := expression.Name("OccurredAt").Between(
		expression.Value(from.Format(time.RFC3339Nano)),
		expression.Value(to.Format(time.RFC3339Nano)),
	)

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithFilter(filter).
		Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build transaction query", err)
	}

	var records []ledger.TransactionRecord
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.table),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, commonErrors.NewInternalError("failed to query transactions", err)
		}

		var page []ledger.TransactionRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, commonErrors.NewInternalError("failed to unmarshal transactions", err)
		}
		records = append(records, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	return records, nil
}
