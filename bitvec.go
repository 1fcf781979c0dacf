package api

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// BitVector is a densely packed bit string of fixed length. Bit i lives in
// byte i/8 at position i%8 of the byte encoding.
type BitVector struct {
	length uint
	bits   *bitset.BitSet
}

func NewBitVector(length uint) *BitVector {
	return &BitVector{length: length, bits: bitset.New(length)}
}

// NewBitVectorFromBytes wraps an explicit backing buffer of ceil(length/8)
// bytes. Stray bits past length in the final byte are cleared.
func NewBitVectorFromBytes(buf []byte, length uint) (*BitVector, error) {
	if uint(len(buf)) != byteLen(length) {
		return nil, fmt.Errorf("bit vector backing buffer %d for %d bits: %w", len(buf), length, ErrLengthMismatch)
	}
	words := make([]uint64, (len(buf)+7)/8)
	for i, b := range buf {
		words[i/8] |= uint64(b) << (8 * (i % 8))
	}
	if rem := length % 64; rem != 0 && len(words) > 0 {
		words[len(words)-1] &= (uint64(1) << rem) - 1
	}
	return &BitVector{length: length, bits: bitset.FromWithLength(length, words)}, nil
}

// RandomBitVector draws length uniform bits from the CSPRNG.
func RandomBitVector(length uint) (*BitVector, error) {
	buf, err := randomBytes(int(byteLen(length)))
	if err != nil {
		return nil, err
	}
	return NewBitVectorFromBytes(buf, length)
}

func (v *BitVector) Len() uint {
	return v.length
}

func (v *BitVector) Bit(i uint) byte {
	if i >= v.length {
		panic(fmt.Sprintf("bit index %d out of range %d", i, v.length))
	}
	if v.bits.Test(i) {
		return 1
	}
	return 0
}

func (v *BitVector) SetBit(i uint, b byte) {
	if i >= v.length {
		panic(fmt.Sprintf("bit index %d out of range %d", i, v.length))
	}
	if b&1 == 1 {
		v.bits.Set(i)
	} else {
		v.bits.Clear(i)
	}
}

// Bytes returns the ceil(length/8)-byte packed encoding.
func (v *BitVector) Bytes() []byte {
	words := v.bits.Bytes()
	out := make([]byte, byteLen(v.length))
	for i := range out {
		out[i] = byte(words[i/8] >> (8 * (i % 8)))
	}
	return out
}

func (v *BitVector) Clone() *BitVector {
	return &BitVector{length: v.length, bits: v.bits.Clone()}
}

// XOR returns the bitwise difference of two equal-length vectors.
func (v *BitVector) XOR(o *BitVector) (*BitVector, error) {
	if v.length != o.length {
		return nil, fmt.Errorf("xor of %d and %d bits: %w", v.length, o.length, ErrLengthMismatch)
	}
	out := v.Clone()
	out.bits.InPlaceSymmetricDifference(o.bits)
	return out, nil
}

func byteLen(bits uint) uint {
	return (bits + 7) / 8
}

func xorBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("xor of %d and %d bytes: %w", len(a), len(b), ErrLengthMismatch)
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// BitMatrix is a row-major packed bit matrix.
type BitMatrix struct {
	rows, cols uint
	row        []*BitVector
}

func NewBitMatrix(rows, cols uint) *BitMatrix {
	m := &BitMatrix{rows: rows, cols: cols, row: make([]*BitVector, rows)}
	for i := range m.row {
		m.row[i] = NewBitVector(cols)
	}
	return m
}

// RandomBitMatrix fills a rows x cols matrix. With a seed the content is the
// deterministic HKDF(Keccak-256) stream under info = uint32(rows)||uint32(cols);
// with a nil seed it is drawn from the CSPRNG.
func RandomBitMatrix(rows, cols uint, seed []byte) (*BitMatrix, error) {
	rowBytes := int(byteLen(cols))
	var stream []byte
	var err error
	if seed == nil {
		stream, err = randomBytes(int(rows) * rowBytes)
	} else {
		info := make([]byte, 8)
		binary.BigEndian.PutUint32(info[:4], uint32(rows))
		binary.BigEndian.PutUint32(info[4:], uint32(cols))
		stream, err = hkdfStream(seed, info, int(rows)*rowBytes)
	}
	if err != nil {
		return nil, err
	}
	m := &BitMatrix{rows: rows, cols: cols, row: make([]*BitVector, rows)}
	for i := uint(0); i < rows; i++ {
		m.row[i], err = NewBitVectorFromBytes(stream[int(i)*rowBytes:int(i+1)*rowBytes], cols)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// hkdfStream extends HKDF-Keccak past the single-invocation expand limit by
// chunking with a counter salt. Outputs within the limit are plain HKDF.
func hkdfStream(secret, info []byte, size int) ([]byte, error) {
	const maxChunk = 255 * 32
	out := make([]byte, 0, size)
	for chunk := 0; len(out) < size; chunk++ {
		var salt []byte
		if chunk > 0 {
			salt = make([]byte, 4)
			binary.BigEndian.PutUint32(salt, uint32(chunk))
		}
		n := size - len(out)
		if n > maxChunk {
			n = maxChunk
		}
		buf, err := hkdfKeccak(secret, salt, info, n)
		if err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}
	return out, nil
}

func (m *BitMatrix) Rows() uint {
	return m.rows
}

func (m *BitMatrix) Cols() uint {
	return m.cols
}

func (m *BitMatrix) Row(i uint) *BitVector {
	return m.row[i]
}

func (m *BitMatrix) Bit(i, j uint) byte {
	return m.row[i].Bit(j)
}

func (m *BitMatrix) SetBit(i, j uint, b byte) {
	m.row[i].SetBit(j, b)
}

// Column extracts column j as a rows-bit vector.
func (m *BitMatrix) Column(j uint) *BitVector {
	out := NewBitVector(m.rows)
	for i := uint(0); i < m.rows; i++ {
		out.SetBit(i, m.row[i].Bit(j))
	}
	return out
}

// scalarFromBits composes x = sum_j bit[offset+j]*2^j mod N from a
// little-endian bit slice, truncating a slice that overruns the vector.
// bitLength must satisfy 2^bitLength < N so the mapping stays injective.
func scalarFromBits(v *BitVector, offset, bitLength uint) (*big.Int, error) {
	bound := new(big.Int).Lsh(bigOne, bitLength)
	if bound.Cmp(curveN) >= 0 {
		return nil, fmt.Errorf("bit length %d not injective mod N: %w", bitLength, ErrInvalidInput)
	}
	x := new(big.Int)
	for j := uint(0); j < bitLength && offset+j < v.length; j++ {
		if v.Bit(offset+j) == 1 {
			x.SetBit(x, int(j), 1)
		}
	}
	return x.Mod(x, curveN), nil
}
