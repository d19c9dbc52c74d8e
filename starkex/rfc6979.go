package starkex

import (
	"crypto/hmac"
	"crypto/sha256"
	"math/big"
)

// nonceGenerator yields deterministic ECDSA nonces per RFC 6979 (HMAC-SHA256).
// Successive calls to next produce the candidate sequence the RFC prescribes
// when a nonce is rejected.
type nonceGenerator struct {
	q    *big.Int
	qlen int
	k    []byte
	v    []byte
}

func newNonceGenerator(q, priv, hash *big.Int) *nonceGenerator {
	g := &nonceGenerator{
		q:    q,
		qlen: q.BitLen(),
	}
	rolen := (g.qlen + 7) / 8

	bx := append(int2octets(priv, rolen), bits2octets(hash, q, g.qlen, rolen)...)

	g.v = make([]byte, sha256.Size)
	g.k = make([]byte, sha256.Size)
	for i := range g.v {
		g.v[i] = 0x01
	}

	g.k = hmacSHA256(g.k, g.v, []byte{0x00}, bx)
	g.v = hmacSHA256(g.k, g.v)
	g.k = hmacSHA256(g.k, g.v, []byte{0x01}, bx)
	g.v = hmacSHA256(g.k, g.v)

	return g
}

// next returns the next nonce candidate in (0, q).
func (g *nonceGenerator) next() *big.Int {
	for {
		var t []byte
		for len(t)*8 < g.qlen {
			g.v = hmacSHA256(g.k, g.v)
			t = append(t, g.v...)
		}

		k := bits2int(t, g.qlen)

		// Prepare internal state for the next candidate.
		g.k = hmacSHA256(g.k, g.v, []byte{0x00})
		g.v = hmacSHA256(g.k, g.v)

		if k.Sign() > 0 && k.Cmp(g.q) < 0 {
			return k
		}
	}
}

func hmacSHA256(key []byte, chunks ...[]byte) []byte {
	mac := hmac.New(sha256.New, key)
	for _, c := range chunks {
		mac.Write(c)
	}
	return mac.Sum(nil)
}

// bits2int converts the leftmost qlen bits of b to an integer.
func bits2int(b []byte, qlen int) *big.Int {
	v := new(big.Int).SetBytes(b)
	if excess := len(b)*8 - qlen; excess > 0 {
		v.Rsh(v, uint(excess))
	}
	return v
}

// int2octets encodes v as a fixed-length big-endian octet string.
func int2octets(v *big.Int, rolen int) []byte {
	out := make([]byte, rolen)
	v.FillBytes(out)
	return out
}

// bits2octets converts a hash value to octets reduced modulo q.
func bits2octets(hash, q *big.Int, qlen, rolen int) []byte {
	z1 := new(big.Int).Set(hash)
	if z1.BitLen() > qlen {
		z1.Rsh(z1, uint(z1.BitLen()-qlen))
	}
	z2 := new(big.Int).Sub(z1, q)
	if z2.Sign() < 0 {
		return int2octets(z1, rolen)
	}
	return int2octets(z2, rolen)
}
