package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrArtifactNotFound is returned when compiled contract files are missing or unparseable
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrContractNotDeployed is returned when no address is recorded for a contract on the active network
	ErrContractNotDeployed = errors.New("contract not deployed")

	// ErrAbiNotFound is returned when the network has no class/ABI at an address
	ErrAbiNotFound = errors.New("abi not found")

	// ErrFunctionNotFound is returned when a function is absent from a contract's interface
	ErrFunctionNotFound = errors.New("function not found")

	// ErrInvalidAccountIndex is returned when an account index is out of range
	ErrInvalidAccountIndex = errors.New("invalid account index")

	// ErrMissingCredential is returned when a private key or address is missing for an account
	ErrMissingCredential = errors.New("missing credential")

	// ErrDeploymentFailed is returned when a declare+deploy transaction fails
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrCallFailed is returned when a read-only call fails
	ErrCallFailed = errors.New("call failed")

	// ErrTransactionReverted is returned when the chain reports an on-chain revert
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrTransactionRejected is returned when the chain rejects a transaction before execution
	ErrTransactionRejected = errors.New("transaction rejected")

	// ErrUnknownTransactionFailure is returned when a receipt matches no known outcome
	ErrUnknownTransactionFailure = errors.New("unknown transaction failure")

	// ErrFinalityTimeout is returned when waiting for a receipt exceeds the configured timeout
	ErrFinalityTimeout = errors.New("finality timeout")

	// ErrPersistence is returned for file-system failures on the ledger or artifacts
	ErrPersistence = errors.New("persistence error")

	// ErrConfigCreated is returned when a default configuration file was just written
	ErrConfigCreated = errors.New("configuration file created")

	// ErrNetworkNotFound is returned when a network is not configured
	ErrNetworkNotFound = errors.New("network not found")
)

type ArtifactNotFoundError struct {
	Contract string
	Path     string
	Err      error
}

func (e *ArtifactNotFoundError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("compiled artifact for %s not found at %s", e.Contract, e.Path)
	}
	return fmt.Sprintf("compiled artifact for %s not found at %s: %v", e.Contract, e.Path, e.Err)
}

func (e *ArtifactNotFoundError) Unwrap() []error { return []error{ErrArtifactNotFound, e.Err} }

type ContractNotDeployedError struct {
	Contract string
	Network  string
}

func (e *ContractNotDeployedError) Error() string {
	return fmt.Sprintf("contract address for %s not found on network %s", e.Contract, e.Network)
}

func (e *ContractNotDeployedError) Unwrap() error { return ErrContractNotDeployed }

type AbiNotFoundError struct {
	Address string
}

func (e *AbiNotFoundError) Error() string {
	return fmt.Sprintf("no ABI found for contract at address %s", e.Address)
}

func (e *AbiNotFoundError) Unwrap() error { return ErrAbiNotFound }

type FunctionNotFoundError struct {
	Contract string
	Function string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("function %s not found in contract %s", e.Function, e.Contract)
}

func (e *FunctionNotFoundError) Unwrap() error { return ErrFunctionNotFound }

type InvalidAccountIndexError struct {
	Index   int
	Count   int
	Network string
}

func (e *InvalidAccountIndexError) Error() string {
	return fmt.Sprintf("invalid account index %d for network %s: %d accounts configured", e.Index, e.Network, e.Count)
}

func (e *InvalidAccountIndexError) Unwrap() error { return ErrInvalidAccountIndex }

type MissingCredentialError struct {
	Index   int
	Network string
	Field   string // "private key" or "address"
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing %s for account %d on network %s", e.Field, e.Index, e.Network)
}

func (e *MissingCredentialError) Unwrap() error { return ErrMissingCredential }

type DeploymentFailedError struct {
	Contract string
	Err      error
}

func (e *DeploymentFailedError) Error() string {
	return fmt.Sprintf("failed to deploy %s contract: %v", e.Contract, e.Err)
}

func (e *DeploymentFailedError) Unwrap() []error { return []error{ErrDeploymentFailed, e.Err} }

type CallFailedError struct {
	Contract string
	Function string
	Err      error
}

func (e *CallFailedError) Error() string {
	return fmt.Sprintf("call to %s.%s failed: %v", e.Contract, e.Function, e.Err)
}

func (e *CallFailedError) Unwrap() []error { return []error{ErrCallFailed, e.Err} }

type TransactionRevertedError struct {
	Operation string
	TxHash    string
	Reason    string
}

func (e *TransactionRevertedError) Error() string {
	return fmt.Sprintf("%s transaction reverted: %s", e.Operation, e.Reason)
}

func (e *TransactionRevertedError) Unwrap() error { return ErrTransactionReverted }

type TransactionRejectedError struct {
	Operation string
	TxHash    string
	Status    string
}

func (e *TransactionRejectedError) Error() string {
	return fmt.Sprintf("%s transaction rejected with status: %s", e.Operation, e.Status)
}

func (e *TransactionRejectedError) Unwrap() error { return ErrTransactionRejected }

type UnknownTransactionFailureError struct {
	Operation string
	TxHash    string
}

func (e *UnknownTransactionFailureError) Error() string {
	return fmt.Sprintf("%s transaction failed with unknown error", e.Operation)
}

func (e *UnknownTransactionFailureError) Unwrap() error { return ErrUnknownTransactionFailure }

type FinalityTimeoutError struct {
	TxHash  string
	Timeout string
}

func (e *FinalityTimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not final after %s", e.TxHash, e.Timeout)
}

func (e *FinalityTimeoutError) Unwrap() error { return ErrFinalityTimeout }

type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
