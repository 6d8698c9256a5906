package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ABI entry types found in Cairo 1 contract classes
const (
	ABITypeFunction    = "function"
	ABITypeInterface   = "interface"
	ABITypeConstructor = "constructor"
	ABITypeL1Handler   = "l1_handler"
)

// State mutability values of ABI functions
const (
	StateMutabilityView     = "view"
	StateMutabilityExternal = "external"
)

// ABIParam is a named input or an output of an ABI function
type ABIParam struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// ABIEntry is a single item of a Sierra ABI
type ABIEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	InterfaceName   string     `json:"interface_name,omitempty"`
	Inputs          []ABIParam `json:"inputs,omitempty"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	StateMutability string     `json:"state_mutability,omitempty"`
	Items           []ABIEntry `json:"items,omitempty"`
}

// IsView reports whether the function does not change state
func (e ABIEntry) IsView() bool {
	return e.StateMutability == StateMutabilityView
}

// ABI is the parsed abi of a contract class
type ABI []ABIEntry

// ParseABI parses a Sierra ABI. Compiled artifacts carry the ABI as a JSON
// array, while nodes return it as a string holding that array.
func ParseABI(raw json.RawMessage) (ABI, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("failed to decode abi string: %w", err)
		}
		if inner == "" {
			return nil, nil
		}
		return ParseABI(json.RawMessage(inner))
	}

	var abi ABI
	if err := json.Unmarshal(raw, &abi); err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return abi, nil
}

// Functions returns every callable function keyed by name, including those
// declared inside interface items.
func (a ABI) Functions() map[string]ABIEntry {
	functions := make(map[string]ABIEntry)
	for _, entry := range a {
		switch entry.Type {
		case ABITypeFunction:
			functions[entry.Name] = entry
		case ABITypeInterface:
			for _, item := range entry.Items {
				if item.Type == ABITypeFunction {
					functions[item.Name] = item
				}
			}
		}
	}
	return functions
}

// Constructor returns the constructor entry if the class declares one
func (a ABI) Constructor() (ABIEntry, bool) {
	for _, entry := range a {
		if entry.Type == ABITypeConstructor {
			return entry, true
		}
	}
	return ABIEntry{}, false
}
