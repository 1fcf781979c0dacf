package api

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	DLEQ_NONCE_DOMAIN_TAG  = "dleq-nonce-v1"
	OT_KEY_DERIVATION_INFO = "ot-key-derivation"
	ROLE_COEFFICIENT_TAG   = "role-a"
	ROLE_OT_DOMAIN_TAG     = "role-ot"
	VERIFY_POLYNOMIAL_ABI  = "verifyPolynomial()"
	CHALLENGE_VERSION      = 1
	CHALLENGE_INPUT_LENGTH = 202
	CALLDATA_LENGTH        = 430
	DEFAULT_SECURITY_PARAM = 128
)

// secp256k1 curve constants. P is the coordinate field prime, N the order
// of the base point G.
var (
	curveP  = mustBigHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	curveN  = mustBigHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	curveGX = mustBigHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	curveGY = mustBigHex("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")

	theCurve = secp256k1.S256()

	bigOne = big.NewInt(1)
)

func mustBigHex(h string) *big.Int {
	v, ok := new(big.Int).SetString(h, 16)
	if !ok {
		panic("invalid hex constant " + h)
	}
	return v
}
