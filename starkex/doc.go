// Package starkex implements StarkEx L2 signing: Pedersen message hashes
// for orders, transfers, and withdrawals, plus deterministic ECDSA over the
// STARK curve (RFC 6979 nonces).
package starkex
