package models

import (
	"fmt"
	"regexp"
	"strings"
)

// addressPattern matches a Starknet address literal
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{62,64}$`)

// IsAddress reports whether s is a Starknet address literal
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress lowercases an address and left-pads it to 64 hex digits
func NormalizeAddress(address string) string {
	hex := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X"))
	if len(hex) < 64 {
		hex = strings.Repeat("0", 64-len(hex)) + hex
	}
	return "0x" + hex
}

// RefKind discriminates the forms a contract reference can take
type RefKind int

const (
	RefName RefKind = iota
	RefAddress
	RefHandle
)

func (k RefKind) String() string {
	switch k {
	case RefName:
		return "name"
	case RefAddress:
		return "address"
	case RefHandle:
		return "handle"
	default:
		return fmt.Sprintf("RefKind(%d)", int(k))
	}
}

// ContractRef identifies a contract by live handle, address or name
type ContractRef struct {
	kind    RefKind
	name    string
	address string
	handle  *Contract
}

// RefFromHandle wraps an already resolved contract
func RefFromHandle(c *Contract) ContractRef {
	return ContractRef{kind: RefHandle, handle: c}
}

// RefFromAddress references a contract by its on-chain address
func RefFromAddress(address string) ContractRef {
	return ContractRef{kind: RefAddress, address: NormalizeAddress(address)}
}

// RefFromName references a contract by name through the address ledger
func RefFromName(name string) ContractRef {
	return ContractRef{kind: RefName, name: name}
}

// ParseContractRef turns user input into a reference: address literals become
// address references, anything else is treated as a contract name.
func ParseContractRef(s string) ContractRef {
	if IsAddress(s) {
		return RefFromAddress(s)
	}
	return RefFromName(s)
}

func (r ContractRef) Kind() RefKind     { return r.kind }
func (r ContractRef) Name() string      { return r.name }
func (r ContractRef) Address() string   { return r.address }
func (r ContractRef) Handle() *Contract { return r.handle }

func (r ContractRef) String() string {
	switch r.kind {
	case RefHandle:
		if r.handle == nil {
			return "<nil>"
		}
		return r.handle.DisplayName()
	case RefAddress:
		return r.address
	default:
		return r.name
	}
}
