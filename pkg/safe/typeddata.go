package safe

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

const (
	safeTxPrimaryType      = "SafeTx"
	createProxyPrimaryType = "CreateProxy"
	domainPrimaryType      = "EIP712Domain"
)

// Safe contracts hash their domain without name or version
var safeDomainType = []apitypes.Type{
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var factoryDomainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)
var safeTxType = []apitypes.Type{
	{Name: "to", Type: "address"},
	{Name: "value", Type: "uint256"},
	{Name: "data", Type: "bytes"},
	{Name: "operation", Type: "uint8"},
	{Name: "safeTxGas", Type: "uint256"},
	{Name: "baseGas", Type: "uint256"},
	{Name: "gasPrice", Type: "uint256"},
	{Name: "gasToken", Type: "address"},
	{Name: "refundReceiver", Type: "address"},
	{Name: "nonce", Type: "uint256"},
}

var createProxyType = []apitypes.Type{
	{Name: "paymentToken", Type: "address"},
	{Name: "payment", Type: "uint256"},
	{Name: "paymentReceiver", Type: "address"},
}

func chainIDValue(chainID uint64) (*math.HexOrDecimal256, error) {
	if chainID == 0 {
		return nil, fmt.Errorf("%w: must be positive", domain.ErrInvalidChainID)
	}
	return (*math.HexOrDecimal256)(new(big.Int).SetUint64(chainID)), nil
}

// SafeTxTypedData builds the SafeTx request the Safe at safeAddress verifies.
// Gas and refund fields are always zero; the relayer pays for execution.
func SafeTxTypedData(chainID uint64, safeAddress common.Address, call models.Call, nonce *big.Int) (apitypes.TypedData, error) {
	cid, err := chainIDValue(chainID)
	if err != nil {
		return apitypes.TypedData{}, err
	}
	if nonce == nil {
		nonce = new(big.Int)
	}

	data := call.Data
	if data == nil {
		data = []byte{}
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			domainPrimaryType: safeDomainType,
			safeTxPrimaryType: safeTxType,
		},
		PrimaryType: safeTxPrimaryType,
		Domain: apitypes.TypedDataDomain{
			ChainId:           cid,
			VerifyingContract: safeAddress.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"to":             call.To.Hex(),
			"value":          call.ValueOrZero(),
			"data":           data,
			"operation":      big.NewInt(int64(call.Operation)),
			"safeTxGas":      big.NewInt(0),
			"baseGas":        big.NewInt(0),
			"gasPrice":       big.NewInt(0),
			"gasToken":       ZeroAddress.Hex(),
			"refundReceiver": ZeroAddress.Hex(),
			"nonce":          new(big.Int).Set(nonce),
		},
	}, nil
}

// CreateProxyTypedData builds the CreateProxy request verified by the Safe factory
func CreateProxyTypedData(chainID uint64, factory, paymentToken common.Address, payment *big.Int, paymentReceiver common.Address) (apitypes.TypedData, error) {
	cid, err := chainIDValue(chainID)
	if err != nil {
		return apitypes.TypedData{}, err
	}
	if payment == nil {
		payment = new(big.Int)
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			domainPrimaryType:      factoryDomainType,
			createProxyPrimaryType: createProxyType,
		},
		PrimaryType: createProxyPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              SafeFactoryName,
			ChainId:           cid,
			VerifyingContract: factory.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"paymentToken":    paymentToken.Hex(),
			"payment":         new(big.Int).Set(payment),
			"paymentReceiver": paymentReceiver.Hex(),
		},
	}, nil
}

// HashTypedData returns keccak256(0x19 0x01 ++ domainSeparator ++ hashStruct(message))
func HashTypedData(typedData apitypes.TypedData) (common.Hash, error) {
	domainSeparator, err := typedData.HashStruct(domainPrimaryType, typedData.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash domain: %w", err)
	}
	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash %s: %w", typedData.PrimaryType, err)
	}

	raw := make([]byte, 0, 2+len(domainSeparator)+len(structHash))
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, structHash...)
	return crypto.Keccak256Hash(raw), nil
}
