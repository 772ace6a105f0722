package safe

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

const multisendABIJSON = `[{"inputs":[{"internalType":"bytes","name":"transactions","type":"bytes"}],"name":"multiSend","outputs":[],"stateMutability":"payable","type":"function"}]`

var multisendABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(multisendABIJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid MultiSend ABI: %v", err))
	}
	return parsed
}()

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// AggregateCalls folds calls into the single call the Safe executes.
// One call is returned unchanged; several calls become a DelegateCall to MultiSend.
func AggregateCalls(calls []models.Call, multisend common.Address) (models.Call, error) {
	switch len(calls) {
	case 0:
		return models.Call{}, domain.ErrEmptyBatch
	case 1:
		return calls[0], nil
	}

	packed, err := EncodeMultisendTransactions(calls)
	if err != nil {
		return models.Call{}, err
	}

	data, err := multisendABI.Pack("multiSend", packed)
	if err != nil {
		return models.Call{}, fmt.Errorf("failed to encode multiSend call: %w", err)
	}

	return models.NewCall(multisend, big.NewInt(0), data, models.OperationDelegateCall), nil
}

// EncodeMultisendTransactions packs each call as
// uint8 operation | address to | uint256 value | uint256 len(data) | bytes data
// and concatenates them in order.
func EncodeMultisendTransactions(calls []models.Call) ([]byte, error) {
	var buf bytes.Buffer
	for i, call := range calls {
		value := call.ValueOrZero()
		if value.Sign() < 0 || value.Cmp(maxUint256) > 0 {
			return nil, fmt.Errorf("call %d: value %s out of uint256 range", i, value)
		}

		buf.WriteByte(byte(call.Operation))
		buf.Write(call.To.Bytes())
		buf.Write(common.LeftPadBytes(value.Bytes(), 32))
		buf.Write(common.LeftPadBytes(new(big.Int).SetInt64(int64(len(call.Data))).Bytes(), 32))
		buf.Write(call.Data)
	}
	return buf.Bytes(), nil
}
