package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/stlm-deploy/internal/domain/models"
	"github.com/trebuchet-org/stlm-deploy/internal/usecase"
)

// Coercer turns loosely typed plan values (strings, numbers, lists, maps)
// into the Go values go-ethereum packs for each ABI type.
//
// Addresses are converted with common.HexToAddress and never rejected
// locally; the chain is the authority on argument validity.
type Coercer struct{}

// NewCoercer creates a new argument coercer
func NewCoercer() *Coercer {
	return &Coercer{}
}

// ConstructorArgs coerces constructor arguments
func (c *Coercer) ConstructorArgs(factory *models.ContractFactory, raw []any) ([]any, error) {
	return CoerceArgs(factory.ABI.Constructor.Inputs, raw)
}

// MethodArgs coerces arguments for the named method
func (c *Coercer) MethodArgs(factory *models.ContractFactory, method string, raw []any) ([]any, error) {
	m, ok := factory.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not found in %s ABI", method, factory.Name)
	}
	return CoerceArgs(m.Inputs, raw)
}

// PackConstructor ABI-encodes constructor arguments
func (c *Coercer) PackConstructor(factory *models.ContractFactory, args []any) ([]byte, error) {
	return factory.ABI.Pack("", args...)
}

// CoerceArgs converts raw values positionally to the input types
func CoerceArgs(inputs abi.Arguments, raw []any) ([]any, error) {
	if len(raw) != len(inputs) {
		return nil, fmt.Errorf("argument count mismatch: expected %d, got %d", len(inputs), len(raw))
	}

	out := make([]any, len(raw))
	for i, input := range inputs {
		v, err := coerce(input.Type, raw[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("argument %s (%s): %w", name, input.Type.String(), err)
		}
		out[i] = v.Interface()
	}
	return out, nil
}

func coerce(t abi.Type, raw any) (reflect.Value, error) {
	goType := t.GetType()
	if raw != nil && reflect.TypeOf(raw) == goType {
		return reflect.ValueOf(raw), nil
	}

	switch t.T {
	case abi.AddressTy:
		s, err := asString(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(common.HexToAddress(s)), nil

	case abi.StringTy:
		s, err := asString(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s), nil

	case abi.BoolTy:
		switch b := raw.(type) {
		case bool:
			return reflect.ValueOf(b), nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(parsed), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use %T as bool", raw)

	case abi.IntTy, abi.UintTy:
		n, err := asBigInt(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return intValue(t, n)

	case abi.BytesTy:
		b, err := asBytes(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil

	case abi.FixedBytesTy:
		b, err := asBytes(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		if len(b) != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		arr := reflect.New(goType).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr, nil

	case abi.SliceTy, abi.ArrayTy:
		items, err := asList(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		var out reflect.Value
		if t.T == abi.ArrayTy {
			if len(items) != t.Size {
				return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
			}
			out = reflect.New(goType).Elem()
		} else {
			out = reflect.MakeSlice(goType, len(items), len(items))
		}
		for i, item := range items {
			v, err := coerce(*t.Elem, item)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(v)
		}
		return out, nil

	case abi.TupleTy:
		fields, ok := raw.(map[string]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("cannot use %T as tuple", raw)
		}
		out := reflect.New(goType).Elem()
		for i, elem := range t.TupleElems {
			name := t.TupleRawNames[i]
			value, ok := fields[name]
			if !ok {
				return reflect.Value{}, fmt.Errorf("missing tuple field %s", name)
			}
			v, err := coerce(*elem, value)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("field %s: %w", name, err)
			}
			out.Field(i).Set(v)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("unsupported type %s", t.String())
}

// intValue returns n as the sized Go integer type for t, or *big.Int for
// types wider than 64 bits.
func intValue(t abi.Type, n *big.Int) (reflect.Value, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 {
			return reflect.Value{}, fmt.Errorf("negative value %s for unsigned type", n)
		}
		if n.BitLen() > t.Size {
			return reflect.Value{}, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		minimum := new(big.Int).Neg(limit)
		if n.Cmp(minimum) < 0 || n.Cmp(limit) >= 0 {
			return reflect.Value{}, fmt.Errorf("value %s overflows %s", n, t.String())
		}
	}

	goType := t.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		return reflect.ValueOf(n), nil
	}

	v := reflect.New(goType).Elem()
	if t.T == abi.UintTy {
		v.SetUint(n.Uint64())
	} else {
		v.SetInt(n.Int64())
	}
	return v, nil
}

func asString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case nil:
		return "", fmt.Errorf("missing value")
	}
	return fmt.Sprint(raw), nil
}

func asBigInt(raw any) (*big.Int, error) {
	switch v := raw.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return nil, fmt.Errorf("non-integral number %v", v)
		}
		return big.NewInt(int64(v)), nil
	case string:
		s := strings.TrimSpace(v)
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("cannot use %T as integer", raw)
}

func asBytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case string:
		return hexutil.Decode(v)
	}
	return nil, fmt.Errorf("cannot use %T as bytes", raw)
}

func asList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot use %T as list", raw)
}

var _ usecase.ArgumentCoercer = (*Coercer)(nil)
