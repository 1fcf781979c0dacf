package api

import (
	"crypto/rand"
	"fmt"
	"hash"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// Point is an affine secp256k1 point. Coordinates are in [0, P). The point
// at infinity has no representation; every operation that would produce it
// fails instead.
type Point struct {
	X *big.Int
	Y *big.Int
}

func NewPoint(x, y *big.Int) *Point {
	return &Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

func basePoint() *Point {
	return NewPoint(curveGX, curveGY)
}

func (p *Point) Clone() *Point {
	return NewPoint(p.X, p.Y)
}

func (p *Point) Equal(q *Point) bool {
	return p != nil && q != nil && p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Bytes returns the 64-byte uncompressed x||y encoding.
func (p *Point) Bytes() []byte {
	out := make([]byte, 64)
	p.X.FillBytes(out[:32])
	p.Y.FillBytes(out[32:])
	return out
}

func pointFromBytes(buf []byte) (*Point, error) {
	if len(buf) != 64 {
		return nil, fmt.Errorf("pointFromBytes length %d: %w", len(buf), ErrLengthMismatch)
	}
	p := &Point{
		X: new(big.Int).SetBytes(buf[:32]),
		Y: new(big.Int).SetBytes(buf[32:]),
	}
	if err := validatePoint(p); err != nil {
		return nil, err
	}
	return p, nil
}

func validatePoint(p *Point) error {
	if p == nil || p.X == nil || p.Y == nil {
		return fmt.Errorf("nil point: %w", ErrInvalidInput)
	}
	if p.X.Sign() < 0 || p.X.Cmp(curveP) >= 0 || p.Y.Sign() < 0 || p.Y.Cmp(curveP) >= 0 {
		return fmt.Errorf("point coordinate out of range: %w", ErrInvalidInput)
	}
	if p.X.Sign() == 0 && p.Y.Sign() == 0 {
		return fmt.Errorf("point at infinity: %w", ErrInvalidInput)
	}
	if !theCurve.IsOnCurve(p.X, p.Y) {
		return fmt.Errorf("point not on curve: %w", ErrInvalidInput)
	}
	return nil
}

func pointBaseMult(k *big.Int) (*Point, error) {
	km := reduceModN(k)
	if km.Sign() == 0 {
		return nil, fmt.Errorf("scalar base mult by zero: %w", ErrInvalidInput)
	}
	x, y := theCurve.ScalarBaseMult(uint256Bytes(km))
	return &Point{X: x, Y: y}, nil
}

func pointScalarMult(p *Point, k *big.Int) (*Point, error) {
	if err := validatePoint(p); err != nil {
		return nil, err
	}
	km := reduceModN(k)
	if km.Sign() == 0 {
		return nil, fmt.Errorf("scalar mult by zero: %w", ErrInvalidInput)
	}
	x, y := theCurve.ScalarMult(p.X, p.Y, uint256Bytes(km))
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, fmt.Errorf("scalar mult hit infinity: %w", ErrInvalidInput)
	}
	return &Point{X: x, Y: y}, nil
}

func pointAdd(p, q *Point) (*Point, error) {
	if err := validatePoint(p); err != nil {
		return nil, err
	}
	if err := validatePoint(q); err != nil {
		return nil, err
	}
	x, y := theCurve.Add(p.X, p.Y, q.X, q.Y)
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, fmt.Errorf("point addition hit infinity: %w", ErrInvalidInput)
	}
	return &Point{X: x, Y: y}, nil
}

func pointNeg(p *Point) *Point {
	return &Point{X: new(big.Int).Set(p.X), Y: new(big.Int).Sub(curveP, p.Y)}
}

func pointSub(p, q *Point) (*Point, error) {
	return pointAdd(p, pointNeg(q))
}

// sumPoints folds a non-empty slice of points with the group law.
func sumPoints(points []*Point) (*Point, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("empty point sum: %w", ErrInvalidInput)
	}
	acc := points[0].Clone()
	if err := validatePoint(acc); err != nil {
		return nil, err
	}
	for _, p := range points[1:] {
		var err error
		acc, err = pointAdd(acc, p)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func newKeccak256() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

func keccak256(parts ...[]byte) []byte {
	h := newKeccak256()
	for _, part := range parts {
		h.Write(part)
	}
	return h.Sum(nil)
}

// hkdfKeccak expands secret into size bytes of key material with
// HKDF over Keccak-256.
func hkdfKeccak(secret, salt, info []byte, size int) ([]byte, error) {
	okm := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(newKeccak256, secret, salt, info), okm); err != nil {
		return nil, err
	}
	return okm, nil
}

func uint256Bytes(v *big.Int) []byte {
	out := make([]byte, 32)
	v.FillBytes(out)
	return out
}

func reduceModN(v *big.Int) *big.Int {
	return new(big.Int).Mod(v, curveN)
}

func mulModN(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Mul(a, b), curveN)
}

func addModN(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Add(a, b), curveN)
}

func subModN(a, b *big.Int) *big.Int {
	return new(big.Int).Mod(new(big.Int).Sub(a, b), curveN)
}

// scalarInRange reports whether v is a canonical nonzero scalar in [1, N).
func scalarInRange(v *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(curveN) < 0
}

func randomScalar() (*big.Int, error) {
	max := new(big.Int).Sub(curveN, bigOne)
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, err
	}
	return v.Add(v, bigOne), nil
}

func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ecdh returns the 32-byte big-endian x coordinate of priv*pub.
func ecdh(priv *big.Int, pub *Point) ([]byte, error) {
	shared, err := pointScalarMult(pub, priv)
	if err != nil {
		return nil, err
	}
	return uint256Bytes(shared.X), nil
}

// ecAddress is the lower 20 bytes of Keccak256(x || y), the same mapping
// the EVM applies to an ecrecover result.
func ecAddress(x, y *big.Int) [20]byte {
	digest := keccak256(uint256Bytes(x), uint256Bytes(y))
	var addr [20]byte
	copy(addr[:], digest[12:])
	return addr
}

func pointAddress(p *Point) [20]byte {
	return ecAddress(p.X, p.Y)
}

// deterministicNonce derives a Schnorr nonce in [1, N) from the secret w
// and the transcript context. Scalars in the context are encoded as
// 32-byte big-endian values reduced mod N, addresses as 20 bytes and
// strings as UTF-8.
func deterministicNonce(w *big.Int, parts ...interface{}) *big.Int {
	h := newKeccak256()
	h.Write([]byte(DLEQ_NONCE_DOMAIN_TAG))
	h.Write(uint256Bytes(reduceModN(w)))
	for _, part := range parts {
		switch v := part.(type) {
		case *big.Int:
			h.Write(uint256Bytes(reduceModN(v)))
		case [20]byte:
			h.Write(v[:])
		case string:
			h.Write([]byte(v))
		case []byte:
			h.Write(v)
		default:
			panic(fmt.Sprintf("deterministicNonce unsupported context type %T", part))
		}
	}
	k := new(big.Int).SetBytes(h.Sum(nil))
	k.Mod(k, new(big.Int).Sub(curveN, bigOne))
	return k.Add(k, bigOne)
}
