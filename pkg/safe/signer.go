package safe

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// Signer is the capability every signing backend provides.
// Signatures are 65 bytes r ++ s ++ v with v in {27, 28}.
type Signer interface {
	// Address returns the EOA that owns the Safe
	Address() common.Address

	// SignMessage signs message as an EIP-191 personal message
	SignMessage(ctx context.Context, message []byte) ([]byte, error)

	// SignTypedData signs the EIP-712 digest of typedData
	SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error)

	// EstimateGas estimates the gas of executing call from the given sender
	EstimateGas(ctx context.Context, from common.Address, call models.Call) (uint64, error)
}
