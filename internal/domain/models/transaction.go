package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/stlm-deploy/internal/domain"
)

// TransactionKind distinguishes contract creation from method calls
type TransactionKind string

const (
	TransactionKindDeploy TransactionKind = "DEPLOY"
	TransactionKindInvoke TransactionKind = "INVOKE"
)

// PendingTx is a broadcast transaction whose outcome is still being tracked
type PendingTx struct {
	Kind     TransactionKind
	Hash     common.Hash
	From     common.Address
	Nonce    uint64
	Contract string
	Method   string
	// Address is the target for invocations and the predicted creation
	// address for deployments.
	Address common.Address
	Tracker *domain.Tracker
}
