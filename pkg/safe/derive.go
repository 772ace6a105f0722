package safe

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-relay/internal/domain"
)

var addressArgs = func() abi.Arguments {
	addressType, _ := abi.NewType("address", "", nil)
	return abi.Arguments{{Type: addressType}}
}()

// DeriveSafeAddress computes the CREATE2 address the factory deploys the owner's Safe to.
// The salt is keccak256(abi.encode(owner)).
func DeriveSafeAddress(owner, factory common.Address) common.Address {
	encoded, err := addressArgs.Pack(owner)
	if err != nil {
		// packing a single address cannot fail
		panic(fmt.Sprintf("failed to encode owner address: %v", err))
	}
	salt := crypto.Keccak256Hash(encoded)
	return crypto.CreateAddress2(factory, salt, SafeInitCodeHash.Bytes())
}

// DeriveProxyAddress computes the address of the legacy proxy wallet.
// The salt is keccak256(abi.encodePacked(owner)).
func DeriveProxyAddress(owner, factory common.Address) common.Address {
	salt := crypto.Keccak256Hash(owner.Bytes())
	return crypto.CreateAddress2(factory, salt, ProxyInitCodeHash.Bytes())
}

// ParseAddress validates a hex encoded 20-byte address
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// DeriveSafeAddressHex validates both inputs before deriving
func DeriveSafeAddressHex(owner, factory string) (common.Address, error) {
	o, err := ParseAddress(owner)
	if err != nil {
		return common.Address{}, fmt.Errorf("owner: %w", err)
	}
	f, err := ParseAddress(factory)
	if err != nil {
		return common.Address{}, fmt.Errorf("factory: %w", err)
	}
	return DeriveSafeAddress(o, f), nil
}
