package models

import (
	"encoding/json"
	"slices"

	"github.com/samber/lo"
)

// CompiledContract holds both compiled representations of a contract class
type CompiledContract struct {
	Name   string          `json:"name"`
	Sierra json.RawMessage `json:"sierra"`
	Casm   json.RawMessage `json:"casm"`
	ABI    ABI             `json:"-"`
}

// Contract is a live handle to a deployed contract
type Contract struct {
	Name    string
	Address string
	ABI     ABI
	// Account is the address of the signer the handle was bound to when resolved
	Account string

	functions map[string]ABIEntry
}

// NewContract builds a handle and indexes the callable functions of its ABI once
func NewContract(name, address string, abi ABI) *Contract {
	return &Contract{
		Name:      name,
		Address:   address,
		ABI:       abi,
		functions: abi.Functions(),
	}
}

// HasFunction reports whether the contract exposes a function with this name
func (c *Contract) HasFunction(name string) bool {
	_, ok := c.functions[name]
	return ok
}

// Function returns the ABI entry of a function
func (c *Contract) Function(name string) (ABIEntry, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

// FunctionNames returns the sorted names of all callable functions
func (c *Contract) FunctionNames() []string {
	names := lo.Keys(c.functions)
	slices.Sort(names)
	return names
}

// DisplayName returns the contract name, or its address for contracts resolved by address
func (c *Contract) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Address
}
