package models

import (
	"encoding/json"
	"fmt"
)

// TransactionType tags the kind of request submitted to the relayer
type TransactionType string

const (
	TransactionTypeSafe       TransactionType = "SAFE"
	TransactionTypeSafeCreate TransactionType = "SAFE-CREATE"
	// TransactionTypeProxy is only used for nonce lookups of legacy proxy wallets
	TransactionTypeProxy TransactionType = "PROXY"
)

// SignatureParams are the non-signed fields the relayer needs to rebuild the signed hash.
// Each request type has its own fixed set.
type SignatureParams interface {
	TransactionType() TransactionType
}

// SafeSignatureParams accompany a SAFE request
type SafeSignatureParams struct {
	GasPrice       string `json:"gasPrice"`
	Operation      string `json:"operation"`
	SafeTxnGas     string `json:"safeTxnGas"`
	BaseGas        string `json:"baseGas"`
	GasToken       string `json:"gasToken"`
	RefundReceiver string `json:"refundReceiver"`
}

// TransactionType implements SignatureParams
func (SafeSignatureParams) TransactionType() TransactionType { return TransactionTypeSafe }

// CreateSignatureParams accompany a SAFE-CREATE request
type CreateSignatureParams struct {
	PaymentToken    string `json:"paymentToken"`
	Payment         string `json:"payment"`
	PaymentReceiver string `json:"paymentReceiver"`
}

// TransactionType implements SignatureParams
func (CreateSignatureParams) TransactionType() TransactionType { return TransactionTypeSafeCreate }

// TransactionRequest is the payload submitted to the relayer
type TransactionRequest struct {
	Type            TransactionType `json:"type"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	ProxyWallet     string          `json:"proxyWallet,omitempty"`
	Data            string          `json:"data"`
	Nonce           string          `json:"nonce,omitempty"`
	Signature       string          `json:"signature"`
	SignatureParams SignatureParams `json:"signatureParams"`
	Metadata        string          `json:"metadata"`
}

// UnmarshalJSON picks the signature params variant from the request type
func (r *TransactionRequest) UnmarshalJSON(b []byte) error {
	type plain TransactionRequest
	var raw struct {
		plain
		SignatureParams json.RawMessage `json:"signatureParams"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = TransactionRequest(raw.plain)
	switch raw.Type {
	case TransactionTypeSafe:
		var p SafeSignatureParams
		if err := decodeParams(raw.SignatureParams, &p); err != nil {
			return err
		}
		r.SignatureParams = p
	case TransactionTypeSafeCreate:
		var p CreateSignatureParams
		if err := decodeParams(raw.SignatureParams, &p); err != nil {
			return err
		}
		r.SignatureParams = p
	default:
		return fmt.Errorf("unsupported transaction type %q", raw.Type)
	}
	return nil
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid signatureParams: %w", err)
	}
	return nil
}
