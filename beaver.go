package api

import "fmt"

// Beaver transform from random OT to chosen OT: random-OT keys become
// one-time pads through H(tag || key). Messages are fixed at 32 bytes, the
// Keccak-256 mask width.

const beaverMessageLength = 32

// BeaverEncrypt masks a chosen message pair under the sender's random-OT
// key pair.
func BeaverEncrypt(tag []byte, k0, k1 [32]byte, m0, m1 []byte) ([2][]byte, error) {
	var out [2][]byte
	if len(m0) != beaverMessageLength || len(m1) != beaverMessageLength {
		return out, fmt.Errorf("beaver messages %d and %d bytes: %w", len(m0), len(m1), ErrLengthMismatch)
	}
	ct0, err := xorBytes(m0, keccak256(tag, k0[:]))
	if err != nil {
		return out, err
	}
	ct1, err := xorBytes(m1, keccak256(tag, k1[:]))
	if err != nil {
		return out, err
	}
	out[0], out[1] = ct0, ct1
	return out, nil
}

// BeaverDecrypt unmasks the ciphertext selected by the receiver's choice
// bit with its single random-OT key.
func BeaverDecrypt(tag []byte, key [32]byte, ct []byte) ([]byte, error) {
	if len(ct) != beaverMessageLength {
		return nil, fmt.Errorf("beaver ciphertext %d bytes: %w", len(ct), ErrLengthMismatch)
	}
	return xorBytes(ct, keccak256(tag, key[:]))
}
