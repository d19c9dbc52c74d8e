package starkex

import (
	"fmt"
	"math/big"

	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
)

// maxSignAttempts bounds nonce regeneration when a candidate produces an
// out-of-range r or a zero s.
const maxSignAttempts = 64

// Signature is an ECDSA signature over the STARK curve. R and S are
// zero-padded 64-character hex strings, the format the edgeX API expects.
type Signature struct {
	R string
	S string
}

// String returns the concatenated r||s wire form.
func (s Signature) String() string {
	return s.R + s.S
}

// Signer signs StarkEx message hashes with a STARK-curve private key.
type Signer struct {
	privateKey *big.Int
	publicKey  starkcurve.G1Affine
}

// NewSigner creates a Signer from a hex-encoded private key.
func NewSigner(privateKeyHex string) (*Signer, error) {
	d, err := HexToBig(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	if d.Sign() <= 0 || d.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("private key out of range")
	}

	s := &Signer{privateKey: d}
	s.publicKey.ScalarMultiplicationBase(d)
	return s, nil
}

// PublicKey returns the x-coordinate of the public key as padded hex.
func (s *Signer) PublicKey() string {
	return fmt.Sprintf("%064x", s.publicKey.X.BigInt(new(big.Int)))
}

// PublicKeyYCoordinate returns the y-coordinate of the public key as padded
// hex. Account registration needs both coordinates.
func (s *Signer) PublicKeyYCoordinate() string {
	return fmt.Sprintf("%064x", s.publicKey.Y.BigInt(new(big.Int)))
}

// Sign produces a deterministic signature for msgHash. Nonces follow
// RFC 6979, so the same (key, hash) pair always yields the same signature.
func (s *Signer) Sign(msgHash *big.Int) (Signature, error) {
	n := fr.Modulus()
	z := new(big.Int).Mod(msgHash, n)

	gen := newNonceGenerator(n, s.privateKey, z)
	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		k := gen.next()

		var pt starkcurve.G1Affine
		pt.ScalarMultiplicationBase(k)
		r := pt.X.BigInt(new(big.Int))
		if r.Sign() == 0 || r.Cmp(n) >= 0 {
			continue
		}

		kInv := new(big.Int).ModInverse(k, n)
		sig := new(big.Int).Mul(r, s.privateKey)
		sig.Add(sig, z)
		sig.Mul(sig, kInv)
		sig.Mod(sig, n)
		if sig.Sign() == 0 {
			continue
		}

		return Signature{
			R: fmt.Sprintf("%064x", r),
			S: fmt.Sprintf("%064x", sig),
		}, nil
	}

	return Signature{}, fmt.Errorf("no valid nonce after %d attempts", maxSignAttempts)
}

// Verify reports whether sig is a valid signature of msgHash under this
// signer's public key.
func (s *Signer) Verify(msgHash *big.Int, sig Signature) bool {
	n := fr.Modulus()

	r, err := HexToBig(sig.R)
	if err != nil {
		return false
	}
	ss, err := HexToBig(sig.S)
	if err != nil {
		return false
	}
	if r.Sign() <= 0 || r.Cmp(n) >= 0 || ss.Sign() <= 0 || ss.Cmp(n) >= 0 {
		return false
	}

	z := new(big.Int).Mod(msgHash, n)
	w := new(big.Int).ModInverse(ss, n)
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, n)

	var a, b, sum starkcurve.G1Affine
	a.ScalarMultiplicationBase(u1)
	b.ScalarMultiplication(&s.publicKey, u2)
	sum.Add(&a, &b)

	x := sum.X.BigInt(new(big.Int))
	return x.Cmp(r) == 0
}
