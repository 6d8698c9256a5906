package starknet

import (
	"math/big"
	"testing"

	"github.com/NethermindEth/starknet.go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

func testABI() models.ABI {
	return models.ABI{
		{
			Type:   models.ABITypeConstructor,
			Name:   "constructor",
			Inputs: []models.ABIParam{{Name: "owner", Type: "core::starknet::contract_address::ContractAddress"}, {Name: "supply", Type: typeU256}},
		},
		{
			Type: models.ABITypeInterface,
			Name: "IThing",
			Items: []models.ABIEntry{
				{Type: models.ABITypeFunction, Name: "set_flag", Inputs: []models.ABIParam{{Name: "flag", Type: typeBool}}},
				{Type: models.ABITypeFunction, Name: "set_name", Inputs: []models.ABIParam{{Name: "name", Type: "core::felt252"}}},
				{Type: models.ABITypeFunction, Name: "set_values", Inputs: []models.ABIParam{{Name: "values", Type: "core::array::Array::<core::felt252>"}}},
				{Type: models.ABITypeFunction, Name: "set_amounts", Inputs: []models.ABIParam{{Name: "amounts", Type: "core::array::Span::<core::integer::u256>"}}},
			},
		},
	}
}

func TestCalldataCompile(t *testing.T) {
	twoTo128 := new(big.Int).Lsh(big.NewInt(1), 128)

	tests := []struct {
		name     string
		function string
		args     []any
		expected []string
		wantErr  string
	}{
		{
			name:     "constructor with u256",
			function: "constructor",
			args:     []any{"0x1", 100},
			expected: []string{"0x1", "0x64", "0x0"},
		},
		{
			name:     "u256 high word",
			function: "constructor",
			args:     []any{"0x1", twoTo128},
			expected: []string{"0x1", "0x0", "0x1"},
		},
		{
			name:     "bool",
			function: "set_flag",
			args:     []any{true},
			expected: []string{"0x1"},
		},
		{
			name:     "bool from string",
			function: "set_flag",
			args:     []any{"false"},
			expected: []string{"0x0"},
		},
		{
			name:     "decimal felt",
			function: "set_name",
			args:     []any{"10"},
			expected: []string{"0xa"},
		},
		{
			name:     "short string felt",
			function: "set_name",
			args:     []any{"hello"},
			expected: []string{"0x68656c6c6f"},
		},
		{
			name:     "array of felts",
			function: "set_values",
			args:     []any{[]any{"1", "0x2"}},
			expected: []string{"0x2", "0x1", "0x2"},
		},
		{
			name:     "comma separated span of u256",
			function: "set_amounts",
			args:     []any{"5, 6"},
			expected: []string{"0x2", "0x5", "0x0", "0x6", "0x0"},
		},
		{
			name:     "wrong argument count",
			function: "set_flag",
			args:     []any{},
			wantErr:  "expects 1 arguments, got 0",
		},
		{
			name:     "unknown function",
			function: "burn",
			args:     nil,
			wantErr:  "function burn not found",
		},
		{
			name:     "negative u256",
			function: "constructor",
			args:     []any{"0x1", -1},
			wantErr:  "out of u256 range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calldata, err := Calldata{}.Compile(testABI(), tt.function, tt.args)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, calldata)
		})
	}
}

func TestCalldataWithoutConstructor(t *testing.T) {
	abi := models.ABI{{Type: models.ABITypeFunction, Name: "get"}}

	calldata, err := Calldata{}.Compile(abi, models.ABITypeConstructor, nil)
	require.NoError(t, err)
	assert.Empty(t, calldata)

	_, err = Calldata{}.Compile(abi, models.ABITypeConstructor, []any{1})
	assert.Error(t, err)
}

func TestByteArrayEncoding(t *testing.T) {
	abi := models.ABI{{
		Type:   models.ABITypeFunction,
		Name:   "set_uri",
		Inputs: []models.ABIParam{{Name: "uri", Type: typeByteArray}},
	}}

	calldata, err := Calldata{}.Compile(abi, "set_uri", []any{"ipfs://token"})
	require.NoError(t, err)

	expected, err := utils.StringToByteArrFelt("ipfs://token")
	require.NoError(t, err)
	require.Len(t, calldata, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].String(), calldata[i])
	}
}

func TestDeployedAddress(t *testing.T) {
	selector := utils.GetSelectorFromNameFelt("ContractDeployed").String()
	deployed := "0x0000000000000000000000000000000000000000000000000000000000000abc"

	receipt := &models.TransactionReceipt{
		Events: []models.Event{
			{FromAddress: "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7", Keys: []string{"0x1"}, Data: []string{"0x1"}},
			{FromAddress: UDCAddress, Keys: []string{selector}, Data: []string{"0xabc", "0x1"}},
		},
	}

	address, ok := deployedAddress(receipt)
	require.True(t, ok)
	assert.Equal(t, deployed, address)

	_, ok = deployedAddress(&models.TransactionReceipt{})
	assert.False(t, ok)
}

func TestReceiptError(t *testing.T) {
	assert.NoError(t, receiptError("declare", &models.TransactionReceipt{ExecutionStatus: models.ExecutionSucceeded}))
	assert.ErrorIs(t, receiptError("declare", &models.TransactionReceipt{ExecutionStatus: models.ExecutionReverted}), domain.ErrTransactionReverted)
	assert.ErrorIs(t, receiptError("deploy", &models.TransactionReceipt{FinalityStatus: models.FinalityRejected}), domain.ErrTransactionRejected)
	assert.ErrorIs(t, receiptError("deploy", &models.TransactionReceipt{}), domain.ErrUnknownTransactionFailure)
}

func TestParsePrivateKey(t *testing.T) {
	key, err := parsePrivateKey("0x1f")
	require.NoError(t, err)
	assert.Equal(t, int64(31), key.Int64())

	key, err = parsePrivateKey("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), key.Int64())

	_, err = parsePrivateKey("")
	assert.Error(t, err)
	_, err = parsePrivateKey("0xzz")
	assert.Error(t, err)
}
