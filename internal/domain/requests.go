package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// DeploymentRequest describes a single contract-creation transaction.
type DeploymentRequest struct {
	Contract string
	Label    string
	Args     []any
	Network  string
}

// InvocationRequest describes a single state-changing method call.
type InvocationRequest struct {
	Contract string
	Address  common.Address
	Method   string
	Args     []any
	Sender   common.Address
	Network  string
}

// NewDeploymentRequest copies args so later mutation by the caller has no effect.
func NewDeploymentRequest(contract, label, network string, args []any) DeploymentRequest {
	return DeploymentRequest{
		Contract: contract,
		Label:    label,
		Args:     append([]any(nil), args...),
		Network:  network,
	}
}

// NewInvocationRequest copies args so later mutation by the caller has no effect.
func NewInvocationRequest(contract string, address common.Address, method string, sender common.Address, network string, args []any) InvocationRequest {
	return InvocationRequest{
		Contract: contract,
		Address:  address,
		Method:   method,
		Args:     append([]any(nil), args...),
		Sender:   sender,
		Network:  network,
	}
}
