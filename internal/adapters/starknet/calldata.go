package starknet

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/utils"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// Cairo core types with a non single-felt encoding
const (
	typeU256      = "core::integer::u256"
	typeBool      = "core::bool"
	typeByteArray = "core::byte_array::ByteArray"
	arrayPrefix   = "core::array::Array::<"
	spanPrefix    = "core::array::Span::<"
)

var maxU128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Calldata compiles positional arguments against the inputs of an ABI function
type Calldata struct{}

// Compile encodes args for function, or for the constructor when function is "constructor"
func (Calldata) Compile(abi models.ABI, function string, args []any) ([]string, error) {
	var entry models.ABIEntry
	if function == models.ABITypeConstructor {
		ctor, ok := abi.Constructor()
		if !ok {
			if len(args) == 0 {
				return []string{}, nil
			}
			return nil, fmt.Errorf("contract has no constructor but %d arguments were given", len(args))
		}
		entry = ctor
	} else {
		fn, ok := abi.Functions()[function]
		if !ok {
			return nil, fmt.Errorf("function %s not found in abi", function)
		}
		entry = fn
	}

	if len(args) != len(entry.Inputs) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", entry.Name, len(entry.Inputs), len(args))
	}

	calldata := []string{}
	for i, input := range entry.Inputs {
		encoded, err := encodeValue(input.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", input.Name, err)
		}
		for _, f := range encoded {
			calldata = append(calldata, f.String())
		}
	}
	return calldata, nil
}

func encodeValue(typ string, value any) ([]*felt.Felt, error) {
	switch {
	case typ == typeU256:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		if n.Sign() < 0 || n.BitLen() > 256 {
			return nil, fmt.Errorf("value %s out of u256 range", n)
		}
		low := new(big.Int).And(n, maxU128)
		high := new(big.Int).Rsh(n, 128)
		return []*felt.Felt{new(felt.Felt).SetBigInt(low), new(felt.Felt).SetBigInt(high)}, nil

	case typ == typeBool:
		b, err := toBool(value)
		if err != nil {
			return nil, err
		}
		if b {
			return []*felt.Felt{new(felt.Felt).SetUint64(1)}, nil
		}
		return []*felt.Felt{new(felt.Felt).SetUint64(0)}, nil

	case typ == typeByteArray:
		s, ok := value.(string)
		if !ok {
			s = fmt.Sprintf("%v", value)
		}
		return utils.StringToByteArrFelt(s)

	case strings.HasPrefix(typ, arrayPrefix) || strings.HasPrefix(typ, spanPrefix):
		inner := elementType(typ)
		items, err := toSlice(value)
		if err != nil {
			return nil, err
		}
		out := []*felt.Felt{new(felt.Felt).SetUint64(uint64(len(items)))}
		for _, item := range items {
			encoded, err := encodeValue(inner, item)
			if err != nil {
				return nil, err
			}
			out = append(out, encoded...)
		}
		return out, nil

	default:
		f, err := toFelt(value)
		if err != nil {
			return nil, err
		}
		return []*felt.Felt{f}, nil
	}
}

func elementType(typ string) string {
	start := strings.Index(typ, "<")
	if start < 0 || !strings.HasSuffix(typ, ">") {
		return ""
	}
	return typ[start+1 : len(typ)-1]
}

func toSlice(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []any{}, nil
		}
		parts := strings.Split(v, ",")
		out := make([]any, len(parts))
		for i := range parts {
			out[i] = strings.TrimSpace(parts[i])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot encode %T as an array", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		n, err := toBigInt(value)
		if err != nil {
			return false, err
		}
		return n.Sign() != 0, nil
	}
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case *felt.Felt:
		return v.BigInt(new(big.Int)), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("value %v is not an integer", v)
		}
		return big.NewInt(int64(v)), nil
	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		n, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, fmt.Errorf("invalid number %q", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported argument type %T", value)
	}
}

// toFelt encodes numbers directly and non numeric strings as cairo short strings
func toFelt(value any) (*felt.Felt, error) {
	if s, ok := value.(string); ok {
		if _, err := toBigInt(s); err != nil {
			return shortString(s)
		}
	}
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 {
		n = new(big.Int).Add(n, fieldPrime)
	}
	return new(felt.Felt).SetBigInt(n), nil
}

var fieldPrime, _ = new(big.Int).SetString("800000000000011000000000000000000000000000000000000000000000001", 16)

func shortString(s string) (*felt.Felt, error) {
	if len(s) > 31 {
		return nil, fmt.Errorf("short string %q longer than 31 characters", s)
	}
	return new(felt.Felt).SetBytes([]byte(s)), nil
}

// feltsFromHex parses hex encoded felts
func feltsFromHex(values []string) ([]*felt.Felt, error) {
	out := make([]*felt.Felt, len(values))
	for i, v := range values {
		f, err := utils.HexToFelt(v)
		if err != nil {
			return nil, fmt.Errorf("invalid felt %q: %w", v, err)
		}
		out[i] = f
	}
	return out, nil
}
