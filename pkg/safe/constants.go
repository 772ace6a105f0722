package safe

import "github.com/ethereum/go-ethereum/common"

var (
	// SafeInitCodeHash is the keccak256 of the Safe proxy creation code deployed by the factory
	SafeInitCodeHash = common.HexToHash("0x2bce2127ff07fb632d16c8347c4ebf501f4841168bed00d9e6ef715ddb6fcecf")

	// ProxyInitCodeHash is the keccak256 of the legacy proxy wallet creation code
	ProxyInitCodeHash = common.HexToHash("0xd21df8dc65880a8606f09fe0ce3df9b8869287ab0b058be05aa9e8af6330a00b")

	// ZeroAddress is used for gas token, refund receiver and payment fields
	ZeroAddress = common.Address{}
)

// SafeFactoryName is the EIP-712 domain name of the Safe proxy factory
const SafeFactoryName = "Polymarket Contract Proxy Factory"
