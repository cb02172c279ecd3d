package repository

import (
	"fmt"
)

// Single-table key scheme. Every item lives under the owner's partition;
// the sort-key prefix separates entity types within it.
const (
	skOwnerProfile      = "PROFILE"
	skTransactionPrefix = "TXN#"
	skStaffPrefix       = "STAFF#"
	skReceivablePrefix  = "RECV#"
)

func ownerPK(ownerID string) string {
	return fmt.Sprintf("OWNER#%s", ownerID)
}

func transactionSK(transactionID string) string {
	return skTransactionPrefix + transactionID
}

func staffSK(staffID string) string {
	return skStaffPrefix + staffID
}

func receivableSK(receivableID string) string {
	return skReceivablePrefix + receivableID
}
