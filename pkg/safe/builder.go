package safe

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// SafeTransactionArgs describe a batch executed through the owner's Safe
type SafeTransactionArgs struct {
	From    common.Address
	Nonce   *big.Int
	ChainID uint64
	Calls   []models.Call
}

// SafeCreateArgs describe the deployment of the owner's Safe
type SafeCreateArgs struct {
	From            common.Address
	ChainID         uint64
	PaymentToken    common.Address
	Payment         *big.Int
	PaymentReceiver common.Address
}

// BuildSafeTransactionRequest aggregates the calls, signs the SafeTx digest as a personal
// message and packs the signature into the layout the Safe expects.
func BuildSafeTransactionRequest(
	ctx context.Context,
	signer Signer,
	args SafeTransactionArgs,
	contracts config.SafeContracts,
	metadata string,
) (*models.TransactionRequest, error) {
	call, err := AggregateCalls(args.Calls, contracts.SafeMultisend)
	if err != nil {
		return nil, err
	}

	nonce := args.Nonce
	if nonce == nil {
		nonce = new(big.Int)
	}

	safeAddress := DeriveSafeAddress(args.From, contracts.SafeFactory)

	typedData, err := SafeTxTypedData(args.ChainID, safeAddress, call, nonce)
	if err != nil {
		return nil, err
	}
	digest, err := HashTypedData(typedData)
	if err != nil {
		return nil, err
	}

	sig, err := signer.SignMessage(ctx, digest.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to sign safe transaction: %w", err)
	}

	packed, err := PackSignature(sig)
	if err != nil {
		return nil, err
	}

	data := call.Data
	if data == nil {
		data = []byte{}
	}

	return &models.TransactionRequest{
		Type:        models.TransactionTypeSafe,
		From:        args.From.Hex(),
		To:          call.To.Hex(),
		ProxyWallet: safeAddress.Hex(),
		Data:        hexutil.Encode(data),
		Nonce:       nonce.String(),
		Signature:   hexutil.Encode(packed),
		SignatureParams: models.SafeSignatureParams{
			GasPrice:       "0",
			Operation:      fmt.Sprintf("%d", call.Operation),
			SafeTxnGas:     "0",
			BaseGas:        "0",
			GasToken:       ZeroAddress.Hex(),
			RefundReceiver: ZeroAddress.Hex(),
		},
		Metadata: metadata,
	}, nil
}

// BuildSafeCreateTransactionRequest signs a CreateProxy request for the factory.
// The typed data signature is submitted as-is, without repacking.
func BuildSafeCreateTransactionRequest(
	ctx context.Context,
	signer Signer,
	args SafeCreateArgs,
	contracts config.SafeContracts,
) (*models.TransactionRequest, error) {
	payment := args.Payment
	if payment == nil {
		payment = new(big.Int)
	}

	typedData, err := CreateProxyTypedData(args.ChainID, contracts.SafeFactory, args.PaymentToken, payment, args.PaymentReceiver)
	if err != nil {
		return nil, err
	}

	sig, err := signer.SignTypedData(ctx, typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to sign safe create request: %w", err)
	}

	// The Safe does not exist yet, the relayer records its future address
	safeAddress := DeriveSafeAddress(args.From, contracts.SafeFactory)

	return &models.TransactionRequest{
		Type:        models.TransactionTypeSafeCreate,
		From:        args.From.Hex(),
		To:          contracts.SafeFactory.Hex(),
		ProxyWallet: safeAddress.Hex(),
		Data:        "0x",
		Signature:   hexutil.Encode(sig),
		SignatureParams: models.CreateSignatureParams{
			PaymentToken:    args.PaymentToken.Hex(),
			Payment:         payment.String(),
			PaymentReceiver: args.PaymentReceiver.Hex(),
		},
	}, nil
}
