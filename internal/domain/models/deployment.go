package models

import "time"

// DeploymentConfig describes a single contract deployment
type DeploymentConfig struct {
	ContractName string
	// ConstructorArgs are compiled against the constructor ABI. Nil means no constructor calldata.
	ConstructorArgs []any
}

// DeclareDeployRequest is submitted to the chain as one declare+deploy operation
type DeclareDeployRequest struct {
	Sierra              []byte
	Casm                []byte
	ConstructorCalldata []string
	Salt                string
	// FinalityTimeout bounds each receipt wait. Zero waits until ctx is done.
	FinalityTimeout time.Duration
}

// DeclareDeployResult is returned by a successful declare+deploy
type DeclareDeployResult struct {
	ClassHash     string
	Address       string
	DeclareTxHash string
	DeployTxHash  string
}

// Deployment is the outcome of deploying a contract on a network
type Deployment struct {
	ContractName string
	Network      string
	ClassHash    string
	Address      string
	TxHash       string
	ExplorerURL  string
}

// LedgerEntry is one contract name to address record of a network ledger
type LedgerEntry struct {
	ContractName string `json:"contractName"`
	Address      string `json:"address"`
}

// AccountCredential is a configured signer for a network
type AccountCredential struct {
	Index      int
	Address    string
	PrivateKey string
}
