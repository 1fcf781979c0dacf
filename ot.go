package api

import (
	"crypto/subtle"
	"fmt"
	"math/big"

	"golang.org/x/crypto/chacha20"
)

// Chou-Orlandi 1-of-2 oblivious transfer on secp256k1. The sender holds a
// long-term secret a with public A = a*G; the receiver blinds its choice bit
// into B = b*G or A + b*G. Payloads are ChaCha20 encrypted under
// HKDF-Keccak key material with a Keccak tag over the MAC key, nonce and
// ciphertext.

// OTParams is the sender's public parameter set.
type OTParams struct {
	A *Point
}

type OTSender struct {
	a *big.Int
	A *Point
}

func NewOTSender() (*OTSender, error) {
	a, err := randomScalar()
	if err != nil {
		return nil, err
	}
	A, err := pointBaseMult(a)
	if err != nil {
		return nil, err
	}
	return &OTSender{a: a, A: A}, nil
}

func (s *OTSender) Params() *OTParams {
	return &OTParams{A: s.A.Clone()}
}

// OTMessagePair is one sender input (m0, m1).
type OTMessagePair struct {
	M0 []byte
	M1 []byte
}

// OTCiphertext is a ChaCha20 body with its nonce and Keccak tag.
type OTCiphertext struct {
	Nonce [12]byte
	Body  []byte
	Tag   [32]byte
}

type OTReceiver struct {
	params  *OTParams
	choices *BitVector
	secrets []*big.Int
	publics []*Point
}

// NewOTReceiver blinds one public key per choice bit:
// B_i = b_i*G when c_i = 0, A + b_i*G when c_i = 1.
func NewOTReceiver(params *OTParams, choices *BitVector) (*OTReceiver, error) {
	if params == nil || choices == nil {
		return nil, fmt.Errorf("nil OT receiver inputs: %w", ErrInvalidInput)
	}
	if err := validatePoint(params.A); err != nil {
		return nil, err
	}
	n := choices.Len()
	r := &OTReceiver{
		params:  params,
		choices: choices.Clone(),
		secrets: make([]*big.Int, n),
		publics: make([]*Point, n),
	}
	for i := uint(0); i < n; i++ {
		b, err := randomScalar()
		if err != nil {
			return nil, err
		}
		B, err := pointBaseMult(b)
		if err != nil {
			return nil, err
		}
		if choices.Bit(i) == 1 {
			if B, err = pointAdd(params.A, B); err != nil {
				return nil, err
			}
		}
		r.secrets[i] = b
		r.publics[i] = B
	}
	return r, nil
}

func (r *OTReceiver) PublicKeys() []*Point {
	out := make([]*Point, len(r.publics))
	for i, p := range r.publics {
		out[i] = p.Clone()
	}
	return out
}

// otKeys derives the ChaCha20 key and MAC key from an ECDH secret.
func otKeys(secret []byte) (key, mac []byte, err error) {
	okm, err := hkdfKeccak(secret, nil, []byte(OT_KEY_DERIVATION_INFO), 64)
	if err != nil {
		return nil, nil, err
	}
	return okm[:32], okm[32:], nil
}

func otSeal(secret []byte, msg []byte) (*OTCiphertext, error) {
	key, mac, err := otKeys(secret)
	if err != nil {
		return nil, err
	}
	var ct OTCiphertext
	nonce, err := randomBytes(12)
	if err != nil {
		return nil, err
	}
	copy(ct.Nonce[:], nonce)
	cipher, err := chacha20.NewUnauthenticatedCipher(key, ct.Nonce[:])
	if err != nil {
		return nil, err
	}
	ct.Body = make([]byte, len(msg))
	cipher.XORKeyStream(ct.Body, msg)
	copy(ct.Tag[:], keccak256(mac, ct.Nonce[:], ct.Body))
	return &ct, nil
}

func otOpen(secret []byte, ct *OTCiphertext) ([]byte, error) {
	key, mac, err := otKeys(secret)
	if err != nil {
		return nil, err
	}
	tag := keccak256(mac, ct.Nonce[:], ct.Body)
	if subtle.ConstantTimeCompare(tag, ct.Tag[:]) != 1 {
		return nil, fmt.Errorf("OT ciphertext tag: %w", ErrMACFailed)
	}
	cipher, err := chacha20.NewUnauthenticatedCipher(key, ct.Nonce[:])
	if err != nil {
		return nil, err
	}
	msg := make([]byte, len(ct.Body))
	cipher.XORKeyStream(msg, ct.Body)
	return msg, nil
}

// Encrypt produces, for every receiver key B, the pair of ciphertexts under
// ECDH(a, B) and ECDH(a, B-A). Exactly one is openable by the receiver.
func (s *OTSender) Encrypt(publics []*Point, pairs []*OTMessagePair) ([][2]*OTCiphertext, error) {
	if len(publics) != len(pairs) {
		return nil, fmt.Errorf("OT encrypt %d keys with %d pairs: %w", len(publics), len(pairs), ErrLengthMismatch)
	}
	out := make([][2]*OTCiphertext, len(publics))
	for i, B := range publics {
		if err := validatePoint(B); err != nil {
			return nil, err
		}
		s0, err := ecdh(s.a, B)
		if err != nil {
			return nil, err
		}
		shifted, err := pointSub(B, s.A)
		if err != nil {
			return nil, err
		}
		s1, err := ecdh(s.a, shifted)
		if err != nil {
			return nil, err
		}
		c0, err := otSeal(s0, pairs[i].M0)
		if err != nil {
			return nil, err
		}
		c1, err := otSeal(s1, pairs[i].M1)
		if err != nil {
			return nil, err
		}
		out[i] = [2]*OTCiphertext{c0, c1}
	}
	logger.Debug().Int("count", len(publics)).Msg("encrypted OT batch")
	return out, nil
}

// Decrypt opens the ciphertext selected by each choice bit, verifying its
// tag in constant time first.
func (r *OTReceiver) Decrypt(cts [][2]*OTCiphertext) ([][]byte, error) {
	if uint(len(cts)) != r.choices.Len() {
		return nil, fmt.Errorf("OT decrypt %d ciphertexts for %d choices: %w", len(cts), r.choices.Len(), ErrLengthMismatch)
	}
	out := make([][]byte, len(cts))
	for i := range cts {
		secret, err := ecdh(r.secrets[i], r.params.A)
		if err != nil {
			return nil, err
		}
		msg, err := otOpen(secret, cts[i][r.choices.Bit(uint(i))])
		if err != nil {
			return nil, err
		}
		out[i] = msg
	}
	return out, nil
}
