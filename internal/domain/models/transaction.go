package models

import "time"

// TransactionState is the relayer-reported lifecycle state of a transaction.
// The client matches it against caller supplied sets and enforces no ordering.
type TransactionState string

const (
	StateNew       TransactionState = "STATE_NEW"
	StateExecuted  TransactionState = "STATE_EXECUTED"
	StateMined     TransactionState = "STATE_MINED"
	StateInvalid   TransactionState = "STATE_INVALID"
	StateConfirmed TransactionState = "STATE_CONFIRMED"
	StateFailed    TransactionState = "STATE_FAILED"
)

// KnownStates lists every state the relayer is documented to report
var KnownStates = []TransactionState{
	StateNew,
	StateExecuted,
	StateMined,
	StateInvalid,
	StateConfirmed,
	StateFailed,
}

// RelayerTransaction is the relayer's record of a submitted transaction
type RelayerTransaction struct {
	TransactionID   string           `json:"transactionID"`
	TransactionHash string           `json:"transactionHash"`
	From            string           `json:"from"`
	To              string           `json:"to"`
	ProxyAddress    string           `json:"proxyAddress"`
	Data            string           `json:"data"`
	Nonce           string           `json:"nonce"`
	Value           string           `json:"value"`
	State           TransactionState `json:"state"`
	Type            TransactionType  `json:"type"`
	Metadata        string           `json:"metadata"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// SubmitResponse is the relayer's immediate answer to a submission
type SubmitResponse struct {
	TransactionID   string           `json:"transactionID"`
	State           TransactionState `json:"state"`
	TransactionHash string           `json:"transactionHash"`
}

// NoncePayload is returned by the nonce endpoint
type NoncePayload struct {
	Nonce string `json:"nonce"`
}

// DeployedPayload is returned by the deployed endpoint
type DeployedPayload struct {
	Deployed bool `json:"deployed"`
}
