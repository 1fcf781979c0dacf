package api

import (
	"fmt"
)

// IKNP random-OT extension: k base OTs in the reversed direction are
// stretched into n random OTs. The extension sender ends with key pairs
// (k0_i, k1_i); the extension receiver ends with choice bits r_i and the
// matching key k_{r_i}.

// IKNPReceiver is the extension receiver. It plays base-OT sender.
type IKNPReceiver struct {
	n, k uint
	r    *BitVector
	T    *BitMatrix
	base *OTSender
	keys [][32]byte
}

// NewIKNPReceiver samples the choice vector r (or adopts the caller's) and
// the random matrix T. choices may be nil for the random-OT case.
func NewIKNPReceiver(n, k uint, choices *BitVector) (*IKNPReceiver, error) {
	if n == 0 || k == 0 {
		return nil, fmt.Errorf("IKNP extension %d x %d: %w", n, k, ErrInvalidInput)
	}
	if choices != nil && choices.Len() != n {
		return nil, fmt.Errorf("IKNP choices %d for %d OTs: %w", choices.Len(), n, ErrLengthMismatch)
	}
	var err error
	if choices == nil {
		if choices, err = RandomBitVector(n); err != nil {
			return nil, err
		}
	} else {
		choices = choices.Clone()
	}
	T, err := RandomBitMatrix(n, k, nil)
	if err != nil {
		return nil, err
	}
	base, err := NewOTSender()
	if err != nil {
		return nil, err
	}
	return &IKNPReceiver{n: n, k: k, r: choices, T: T, base: base}, nil
}

// BaseParams exposes the base-OT sender parameters for the peer.
func (r *IKNPReceiver) BaseParams() *OTParams {
	return r.base.Params()
}

func (r *IKNPReceiver) Choices() *BitVector {
	return r.r.Clone()
}

// Round1 base-OT-encrypts the column pairs (T[j], T[j] xor r) and fixes the
// receiver keys as Keccak256 of the rows of T.
func (r *IKNPReceiver) Round1(baseKeys []*Point) ([][2]*OTCiphertext, error) {
	if uint(len(baseKeys)) != r.k {
		return nil, fmt.Errorf("IKNP round 1 with %d base keys for k=%d: %w", len(baseKeys), r.k, ErrLengthMismatch)
	}
	rBytes := r.r.Bytes()
	pairs := make([]*OTMessagePair, r.k)
	for j := uint(0); j < r.k; j++ {
		col := r.T.Column(j).Bytes()
		shifted, err := xorBytes(col, rBytes)
		if err != nil {
			return nil, err
		}
		pairs[j] = &OTMessagePair{M0: col, M1: shifted}
	}
	cts, err := r.base.Encrypt(baseKeys, pairs)
	if err != nil {
		return nil, err
	}
	r.keys = make([][32]byte, r.n)
	for i := uint(0); i < r.n; i++ {
		copy(r.keys[i][:], keccak256(r.T.Row(i).Bytes()))
	}
	logger.Debug().Uint("n", r.n).Uint("k", r.k).Msg("IKNP extension round 1")
	return cts, nil
}

// Keys returns k_{r_i} for every extended OT. Valid after Round1.
func (r *IKNPReceiver) Keys() [][32]byte {
	out := make([][32]byte, len(r.keys))
	copy(out, r.keys)
	return out
}

// IKNPSender is the extension sender. It plays base-OT receiver with a
// secret selector vector c.
type IKNPSender struct {
	k    uint
	c    *BitVector
	base *OTReceiver
}

func NewIKNPSender(params *OTParams, k uint) (*IKNPSender, error) {
	if k == 0 {
		return nil, fmt.Errorf("IKNP security parameter 0: %w", ErrInvalidInput)
	}
	c, err := RandomBitVector(k)
	if err != nil {
		return nil, err
	}
	base, err := NewOTReceiver(params, c)
	if err != nil {
		return nil, err
	}
	return &IKNPSender{k: k, c: c, base: base}, nil
}

// BaseKeys exposes the blinded base-OT public keys for the peer.
func (s *IKNPSender) BaseKeys() []*Point {
	return s.base.PublicKeys()
}

// Round2 decrypts the selected column of each base OT, reassembles the
// matrix Q and hashes each row into the key pair
// (Keccak256(row), Keccak256(row xor c)).
func (s *IKNPSender) Round2(cts [][2]*OTCiphertext, n uint) (k0, k1 [][32]byte, err error) {
	if n == 0 {
		return nil, nil, fmt.Errorf("IKNP round 2 with n=0: %w", ErrInvalidInput)
	}
	columns, err := s.base.Decrypt(cts)
	if err != nil {
		return nil, nil, err
	}
	if uint(len(columns)) != s.k {
		return nil, nil, fmt.Errorf("IKNP round 2 with %d columns for k=%d: %w", len(columns), s.k, ErrLengthMismatch)
	}
	Q := NewBitMatrix(n, s.k)
	for j := uint(0); j < s.k; j++ {
		col, err := NewBitVectorFromBytes(columns[j], n)
		if err != nil {
			return nil, nil, err
		}
		for i := uint(0); i < n; i++ {
			Q.SetBit(i, j, col.Bit(i))
		}
	}
	k0 = make([][32]byte, n)
	k1 = make([][32]byte, n)
	for i := uint(0); i < n; i++ {
		row := Q.Row(i)
		copy(k0[i][:], keccak256(row.Bytes()))
		shifted, err := row.XOR(s.c)
		if err != nil {
			return nil, nil, err
		}
		copy(k1[i][:], keccak256(shifted.Bytes()))
	}
	logger.Debug().Uint("n", n).Uint("k", s.k).Msg("IKNP extension round 2")
	return k0, k1, nil
}
