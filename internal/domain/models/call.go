package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// OperationType is the Safe operation enum (0 = Call, 1 = DelegateCall)
type OperationType uint8

const (
	OperationCall         OperationType = 0
	OperationDelegateCall OperationType = 1
)

// String returns the human readable operation name
func (o OperationType) String() string {
	switch o {
	case OperationCall:
		return "Call"
	case OperationDelegateCall:
		return "DelegateCall"
	default:
		return fmt.Sprintf("Operation(%d)", uint8(o))
	}
}

// ParseOperationType accepts "call", "delegatecall" or the numeric enum value
func ParseOperationType(s string) (OperationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "call":
		return OperationCall, nil
	case "1", "delegatecall", "delegate":
		return OperationDelegateCall, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", s)
	}
}

// Call is a single on-chain invocation executed by the Safe.
// Values are copied on construction and never modified afterwards.
type Call struct {
	To        common.Address
	Value     *big.Int
	Data      []byte
	Operation OperationType
}

// NewCall creates a call, copying data and value so the caller's buffers can be reused
func NewCall(to common.Address, value *big.Int, data []byte, op OperationType) Call {
	v := new(big.Int)
	if value != nil {
		v.Set(value)
	}
	return Call{
		To:        to,
		Value:     v,
		Data:      common.CopyBytes(data),
		Operation: op,
	}
}

// ValueOrZero returns the call value, treating nil as zero
func (c Call) ValueOrZero() *big.Int {
	if c.Value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.Value)
}

// callJSON is the wire shape used by call files and the relayer: all fields are strings
type callJSON struct {
	To        string        `json:"to"`
	Operation OperationType `json:"operation"`
	Data      string        `json:"data"`
	Value     string        `json:"value"`
}

// MarshalJSON encodes the call as {to, operation, data, value}
func (c Call) MarshalJSON() ([]byte, error) {
	data := c.Data
	if data == nil {
		data = []byte{}
	}
	return json.Marshal(callJSON{
		To:        c.To.Hex(),
		Operation: c.Operation,
		Data:      hexutil.Encode(data),
		Value:     c.ValueOrZero().String(),
	})
}

// UnmarshalJSON decodes a call, validating the address, hex data and decimal value
func (c *Call) UnmarshalJSON(b []byte) error {
	var raw callJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if raw.Operation > OperationDelegateCall {
		return fmt.Errorf("invalid call operation %d", raw.Operation)
	}

	call, err := ParseCall(raw.To, raw.Data, raw.Value, raw.Operation.numeric())
	if err != nil {
		return err
	}
	*c = call
	return nil
}

func (o OperationType) numeric() string {
	return fmt.Sprintf("%d", uint8(o))
}

// ParseCall builds a call from its textual fields. Data is 0x-prefixed hex, value is
// decimal or 0x-prefixed hex and empty strings mean zero.
func ParseCall(to, data, value, operation string) (Call, error) {
	if !common.IsHexAddress(to) {
		return Call{}, fmt.Errorf("invalid call target %q", to)
	}

	decoded := []byte{}
	if data != "" && data != "0x" {
		b, err := hexutil.Decode(data)
		if err != nil {
			return Call{}, fmt.Errorf("invalid call data: %w", err)
		}
		decoded = b
	}

	v := new(big.Int)
	if value != "" {
		if _, ok := v.SetString(value, 0); !ok || v.Sign() < 0 {
			return Call{}, fmt.Errorf("invalid call value %q", value)
		}
	}

	op, err := ParseOperationType(operation)
	if err != nil {
		return Call{}, err
	}

	return NewCall(common.HexToAddress(to), v, decoded, op), nil
}
