package models

import "math/big"

// Execution and finality statuses reported by Starknet nodes
const (
	ExecutionSucceeded = "SUCCEEDED"
	ExecutionReverted  = "REVERTED"

	FinalityAcceptedOnL2 = "ACCEPTED_ON_L2"
	FinalityAcceptedOnL1 = "ACCEPTED_ON_L1"
	FinalityRejected     = "REJECTED"
)

// ReceiptOutcome is the classified terminal state of a transaction
type ReceiptOutcome string

const (
	ReceiptSuccess  ReceiptOutcome = "success"
	ReceiptReverted ReceiptOutcome = "reverted"
	ReceiptRejected ReceiptOutcome = "rejected"
	ReceiptUnknown  ReceiptOutcome = "unknown"
)

// Event is an event emitted during execution
type Event struct {
	FromAddress string   `json:"from_address"`
	Keys        []string `json:"keys"`
	Data        []string `json:"data"`
}

// TransactionReceipt is the terminal snapshot of a submitted transaction
type TransactionReceipt struct {
	Hash            string  `json:"transaction_hash"`
	ExecutionStatus string  `json:"execution_status"`
	FinalityStatus  string  `json:"finality_status"`
	RevertReason    string  `json:"revert_reason,omitempty"`
	Events          []Event `json:"events,omitempty"`
}

// Outcome classifies the receipt into exactly one outcome
func (r *TransactionReceipt) Outcome() ReceiptOutcome {
	switch {
	case r == nil:
		return ReceiptUnknown
	case r.ExecutionStatus == ExecutionSucceeded:
		return ReceiptSuccess
	case r.ExecutionStatus == ExecutionReverted:
		return ReceiptReverted
	case r.FinalityStatus == FinalityRejected:
		return ReceiptRejected
	default:
		return ReceiptUnknown
	}
}

// Status returns the most specific status string carried by the receipt
func (r *TransactionReceipt) Status() string {
	if r.FinalityStatus != "" {
		return r.FinalityStatus
	}
	return r.ExecutionStatus
}

// FunctionCall is a call to a contract entry point with compiled calldata
type FunctionCall struct {
	ContractAddress string
	Function        string
	Calldata        []string
}

// FeeEstimate holds the node's suggestion and the buffered ceiling
type FeeEstimate struct {
	Suggested *big.Int
	MaxFee    *big.Int
	Buffer    int
}
