package safe

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-relay/internal/domain"
)

const signatureLength = 65

// NormalizeV maps a recovery byte into the Safe's eth_sign signature type range.
// 0/1 become 31/32 and 27/28 become 31/32; anything else is rejected.
func NormalizeV(v byte) (byte, error) {
	switch v {
	case 0, 1:
		return v + 31, nil
	case 27, 28:
		return v + 4, nil
	default:
		return 0, domain.InvalidSignatureErr{V: v, Length: signatureLength}
	}
}

// PackSignature returns r ++ s ++ v with v normalized for the Safe contract
func PackSignature(raw []byte) ([]byte, error) {
	if len(raw) != signatureLength {
		return nil, domain.InvalidSignatureErr{Length: len(raw)}
	}

	v, err := NormalizeV(raw[64])
	if err != nil {
		return nil, err
	}

	packed := make([]byte, signatureLength)
	copy(packed, raw[:64])
	packed[64] = v
	return packed, nil
}

// PackSignatureHex is PackSignature over 0x-prefixed hex strings
func PackSignatureHex(sig string) (string, error) {
	raw, err := hexutil.Decode(sig)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidSignatureFormat, err)
	}
	packed, err := PackSignature(raw)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(packed), nil
}
