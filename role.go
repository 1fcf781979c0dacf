package api

import (
	"fmt"
	"math/big"
)

// ROLE builds a pool of OLE correlations over F_N from bit-decomposed
// chosen OTs: the sender ends with (a_i, b_i), the receiver with
// (x_i, y_i = a_i*x_i + b_i). Each OLE consumes BitLength extended OTs.

type ROLEParams struct {
	NumOLEs   int
	BitLength int
	K         uint
}

func (p *ROLEParams) validate(chosen bool) error {
	if p == nil || p.NumOLEs <= 0 || p.BitLength <= 0 || p.K == 0 {
		return fmt.Errorf("ROLE parameters: %w", ErrInvalidInput)
	}
	if chosen {
		// Chosen inputs are canonical scalars, so a full 256-bit
		// decomposition stays injective.
		if p.BitLength > 256 {
			return fmt.Errorf("ROLE bit length %d: %w", p.BitLength, ErrInvalidInput)
		}
		return nil
	}
	if new(big.Int).Lsh(bigOne, uint(p.BitLength)).Cmp(curveN) >= 0 {
		return fmt.Errorf("ROLE bit length %d not injective mod N: %w", p.BitLength, ErrInvalidInput)
	}
	return nil
}

func (p *ROLEParams) totalOTs() uint {
	return uint(p.NumOLEs * p.BitLength)
}

// ROLESenderPool holds the sender view of a batch of OLE samples. Samples
// are consumed at most once through the monotonic counter.
type ROLESenderPool struct {
	samples []*OLESenderSample
	next    int
}

func (p *ROLESenderPool) Next() (*OLESenderSample, error) {
	if p.next >= len(p.samples) {
		return nil, fmt.Errorf("ROLE sender pool at %d: %w", p.next, ErrPoolExhausted)
	}
	s := p.samples[p.next]
	p.next++
	return s, nil
}

func (p *ROLESenderPool) Remaining() int {
	return len(p.samples) - p.next
}

// ROLEReceiverPool is the matching receiver view.
type ROLEReceiverPool struct {
	samples []*OLEReceiverSample
	next    int
}

func (p *ROLEReceiverPool) Next() (*OLEReceiverSample, error) {
	if p.next >= len(p.samples) {
		return nil, fmt.Errorf("ROLE receiver pool at %d: %w", p.next, ErrPoolExhausted)
	}
	s := p.samples[p.next]
	p.next++
	return s, nil
}

// SampleAt looks a sample up by index without consuming the counter; the
// aggregator tracks duplicate use itself.
func (p *ROLEReceiverPool) SampleAt(index int) (*OLEReceiverSample, error) {
	if index < 0 || index >= len(p.samples) {
		return nil, fmt.Errorf("ROLE receiver sample %d of %d: %w", index, len(p.samples), ErrPoolExhausted)
	}
	return p.samples[index], nil
}

func (p *ROLEReceiverPool) Remaining() int {
	return len(p.samples) - p.next
}

// RoleExtendRandom runs the full extension with uniformly random receiver
// inputs x_i in [0, 2^BitLength).
func RoleExtendRandom(params *ROLEParams) (*ROLESenderPool, *ROLEReceiverPool, error) {
	if err := params.validate(false); err != nil {
		return nil, nil, err
	}
	return roleExtend(params, nil)
}

// RoleExtendChosen runs the extension with the receiver's chosen inputs.
func RoleExtendChosen(params *ROLEParams, xs []*big.Int) (*ROLESenderPool, *ROLEReceiverPool, error) {
	if err := params.validate(true); err != nil {
		return nil, nil, err
	}
	if len(xs) != params.NumOLEs {
		return nil, nil, fmt.Errorf("ROLE chosen inputs %d for %d OLEs: %w", len(xs), params.NumOLEs, ErrLengthMismatch)
	}
	choices, err := encodeROLEChoices(params, xs)
	if err != nil {
		return nil, nil, err
	}
	return roleExtend(params, choices)
}

func encodeROLEChoices(params *ROLEParams, xs []*big.Int) (*BitVector, error) {
	choices := NewBitVector(params.totalOTs())
	for i, x := range xs {
		if x == nil || x.Sign() < 0 || x.BitLen() > params.BitLength || x.Cmp(curveN) >= 0 {
			return nil, fmt.Errorf("ROLE input %d out of range: %w", i, ErrInvalidInput)
		}
		for j := 0; j < params.BitLength; j++ {
			choices.SetBit(uint(i*params.BitLength+j), byte(x.Bit(j)))
		}
	}
	return choices, nil
}

func roleExtend(params *ROLEParams, choices *BitVector) (*ROLESenderPool, *ROLEReceiverPool, error) {
	nT := params.totalOTs()
	recv, err := NewIKNPReceiver(nT, params.K, choices)
	if err != nil {
		return nil, nil, err
	}
	snd, err := NewIKNPSender(recv.BaseParams(), params.K)
	if err != nil {
		return nil, nil, err
	}
	cts, err := recv.Round1(snd.BaseKeys())
	if err != nil {
		return nil, nil, err
	}
	k0, k1, err := snd.Round2(cts, nT)
	if err != nil {
		return nil, nil, err
	}
	senderPool, roleCts, err := roleSenderFinalize(params, k0, k1)
	if err != nil {
		return nil, nil, err
	}
	receiverPool, err := roleReceiverFinalize(params, recv.Choices(), recv.Keys(), roleCts)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug().Int("oles", params.NumOLEs).Int("bits", params.BitLength).Msg("extended ROLE pool")
	return senderPool, receiverPool, nil
}

// roleSenderFinalize derives (a_i, b_i) and the per-bit masked message
// pairs (r, r + a*2^j) from the extension key pairs.
func roleSenderFinalize(params *ROLEParams, k0, k1 [][32]byte) (*ROLESenderPool, [][2][]byte, error) {
	nT := int(params.totalOTs())
	if len(k0) != nT || len(k1) != nT {
		return nil, nil, fmt.Errorf("ROLE sender keys %d/%d for %d OTs: %w", len(k0), len(k1), nT, ErrLengthMismatch)
	}
	seed := keccak256([]byte(ROLE_OT_DOMAIN_TAG), k0[0][:], k1[0][:])
	masks, err := RandomBitMatrix(uint(nT), 256, seed)
	if err != nil {
		return nil, nil, err
	}
	samples := make([]*OLESenderSample, params.NumOLEs)
	cts := make([][2][]byte, nT)
	for i := 0; i < params.NumOLEs; i++ {
		first := i * params.BitLength
		a := reduceModN(new(big.Int).SetBytes(keccak256([]byte(ROLE_COEFFICIENT_TAG), k0[first][:], k1[first][:])))
		b := new(big.Int)
		for j := 0; j < params.BitLength; j++ {
			t := first + j
			r := reduceModN(new(big.Int).SetBytes(masks.Row(uint(t)).Bytes()))
			shift := new(big.Int).Mod(new(big.Int).Lsh(a, uint(j)), curveN)
			m1 := addModN(r, shift)
			b = addModN(b, r)
			cts[t], err = BeaverEncrypt([]byte(ROLE_OT_DOMAIN_TAG), k0[t], k1[t], uint256Bytes(r), uint256Bytes(m1))
			if err != nil {
				return nil, nil, err
			}
		}
		samples[i] = &OLESenderSample{Index: i, A: a, B: b}
	}
	return &ROLESenderPool{samples: samples}, cts, nil
}

// roleReceiverFinalize unmasks the chosen message of every bit and folds
// the OLE outputs y_i = sum_j m_{bit_{i,j}}.
func roleReceiverFinalize(params *ROLEParams, choices *BitVector, keys [][32]byte, cts [][2][]byte) (*ROLEReceiverPool, error) {
	nT := int(params.totalOTs())
	if len(keys) != nT || len(cts) != nT || choices.Len() != uint(nT) {
		return nil, fmt.Errorf("ROLE receiver state for %d OTs: %w", nT, ErrLengthMismatch)
	}
	samples := make([]*OLEReceiverSample, params.NumOLEs)
	for i := 0; i < params.NumOLEs; i++ {
		first := uint(i * params.BitLength)
		x := new(big.Int)
		y := new(big.Int)
		for j := 0; j < params.BitLength; j++ {
			t := first + uint(j)
			bit := choices.Bit(t)
			if bit == 1 {
				x.SetBit(x, j, 1)
			}
			m, err := BeaverDecrypt([]byte(ROLE_OT_DOMAIN_TAG), keys[t], cts[t][bit])
			if err != nil {
				return nil, err
			}
			y = addModN(y, reduceModN(new(big.Int).SetBytes(m)))
		}
		samples[i] = &OLEReceiverSample{Index: i, X: x.Mod(x, curveN), Y: y}
	}
	return &ROLEReceiverPool{samples: samples}, nil
}
