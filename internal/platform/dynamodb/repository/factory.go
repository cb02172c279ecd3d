package repository

import (
	"log/slog"

	"github.com/mwangi/biasharabot/backend/internal/domain/ledger"
	"github.com/mwangi/biasharabot/backend/internal/domain/owner"
	"github.com/mwangi/biasharabot/backend/internal/domain/payroll"
	"github.com/mwangi/biasharabot/backend/internal/domain/receivable"
	"github.com/mwangi/biasharabot/backend/internal/platform/dynamodb/client"
)

// Factory creates repository instances
type Factory struct {
	client    client.Client
	tableName string
	logger    *slog.Logger
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string, logger *slog.Logger) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// OwnerRepository returns an implementation of the owner.Repository interface
func (f *Factory) OwnerRepository() owner.Repository {
	return NewDynamoDBOwnerRepository(f.client, f.tableName, f.logger)
}

// TransactionRepository returns an implementation of the ledger.Repository interface
func (f *Factory) TransactionRepository() ledger.Repository {
	return NewDynamoDBTransactionRepository(f.client, f.tableName, f.logger)
}

// StaffRepository returns an implementation of the payroll.Repository interface
func (f *Factory) StaffRepository() payroll.Repository {
	return NewDynamoDBStaffRepository(f.client, f.tableName, f.logger)
}

// ReceivableRepository returns an implementation of the receivable.Repository interface
func (f *Factory) ReceivableRepository() receivable.Repository {
	return NewDynamoDBReceivableRepository(f.client, f.tableName, f.logger)
}
