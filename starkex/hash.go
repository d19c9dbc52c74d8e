package starkex

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
)

// StarkEx order type prefixes used in packed message words.
const (
	orderTypeLimitOrderWithFees  = 3
	orderTypeTransfer            = 4
	orderTypeWithdrawalToAddress = 7
)

// nonceUpperBound bounds nonces derived from client IDs (2^32).
var nonceUpperBound = new(big.Int).Lsh(big.NewInt(1), 32)

// CurveOrder returns the order of the STARK curve subgroup.
func CurveOrder() *big.Int {
	return fr.Modulus()
}

// pedersen computes the two-element Pedersen hash over the STARK field.
func pedersen(a, b *big.Int) *big.Int {
	var x, y fp.Element
	x.SetBigInt(a)
	y.SetBigInt(b)
	h := pedersenhash.Pedersen(&x, &y)
	return h.BigInt(new(big.Int))
}

// HexToBig parses a hex string (with or without 0x prefix) as a big integer.
func HexToBig(s string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if trimmed == "" {
		return nil, fmt.Errorf("empty hex string")
	}
	v, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex string: %q", s)
	}
	return v, nil
}

// NonceFromClientID derives a deterministic L2 nonce from a client ID.
// The same client ID always maps to the same nonce, so retried requests
// carry identical signatures.
func NonceFromClientID(clientID string) *big.Int {
	digest := sha256.Sum256([]byte(clientID))
	nonce := new(big.Int).SetBytes(digest[:])
	return nonce.Mod(nonce, nonceUpperBound)
}

// LimitOrderHash computes the LIMIT_ORDER_WITH_FEES message hash.
//
// For a buy the collateral asset is sold and the synthetic asset is bought;
// for a sell the roles reverse. positionID is used as the sell, buy, and fee
// position, matching single-account orders.
func LimitOrderHash(assetIDSynthetic, assetIDCollateral, assetIDFee *big.Int, isBuy bool,
	amountSynthetic, amountCollateral, maxFeeAmount, nonce, positionID, expireHours *big.Int) *big.Int {

	assetIDSell, assetIDBuy := assetIDSynthetic, assetIDCollateral
	amountSell, amountBuy := amountSynthetic, amountCollateral
	if isBuy {
		assetIDSell, assetIDBuy = assetIDCollateral, assetIDSynthetic
		amountSell, amountBuy = amountCollateral, amountSynthetic
	}

	msg := pedersen(assetIDSell, assetIDBuy)
	msg = pedersen(msg, assetIDFee)
	msg = pedersen(msg, packLimitOrderAmounts(amountSell, amountBuy, maxFeeAmount, nonce))
	return pedersen(msg, packLimitOrderPositions(positionID, expireHours))
}

// packLimitOrderAmounts packs amountSell(64) | amountBuy(64) | maxFee(64) |
// nonce(32).
func packLimitOrderAmounts(amountSell, amountBuy, maxFeeAmount, nonce *big.Int) *big.Int {
	w := new(big.Int).Set(amountSell)
	w.Lsh(w, 64).Add(w, amountBuy)
	w.Lsh(w, 64).Add(w, maxFeeAmount)
	w.Lsh(w, 32).Add(w, nonce)
	return w
}

// packLimitOrderPositions packs orderType(10) | feePosition(64) |
// sellPosition(64) | buyPosition(64) | expireHours(32) | padding(17).
func packLimitOrderPositions(positionID, expireHours *big.Int) *big.Int {
	w := big.NewInt(orderTypeLimitOrderWithFees)
	w.Lsh(w, 64).Add(w, positionID)
	w.Lsh(w, 64).Add(w, positionID)
	w.Lsh(w, 64).Add(w, positionID)
	w.Lsh(w, 32).Add(w, expireHours)
	return w.Lsh(w, 17)
}

// TransferHash computes the TRANSFER message hash for an L2 transfer.
func TransferHash(assetID, assetIDFee, receiverPublicKey *big.Int,
	senderPositionID, receiverPositionID, feePositionID,
	nonce, amount, maxFeeAmount, expireHours *big.Int) *big.Int {

	msg := pedersen(assetID, assetIDFee)
	msg = pedersen(msg, receiverPublicKey)
	msg = pedersen(msg, packTransferPositions(senderPositionID, receiverPositionID, feePositionID, nonce))
	return pedersen(msg, packTransferAmounts(amount, maxFeeAmount, expireHours))
}

// packTransferPositions packs senderPosition(64) | receiverPosition(64) |
// feePosition(64) | nonce(32).
func packTransferPositions(senderPositionID, receiverPositionID, feePositionID, nonce *big.Int) *big.Int {
	w := new(big.Int).Set(senderPositionID)
	w.Lsh(w, 64).Add(w, receiverPositionID)
	w.Lsh(w, 64).Add(w, feePositionID)
	w.Lsh(w, 32).Add(w, nonce)
	return w
}

// packTransferAmounts packs orderType(10) | amount(64) | maxFee(64) |
// expireHours(32) | padding(81).
func packTransferAmounts(amount, maxFeeAmount, expireHours *big.Int) *big.Int {
	w := big.NewInt(orderTypeTransfer)
	w.Lsh(w, 64).Add(w, amount)
	w.Lsh(w, 64).Add(w, maxFeeAmount)
	w.Lsh(w, 32).Add(w, expireHours)
	return w.Lsh(w, 81)
}

// WithdrawalToAddressHash computes the WITHDRAWAL_TO_ADDRESS message hash.
func WithdrawalToAddressHash(assetID, positionID, ethAddress, nonce, amount, expireHours *big.Int) *big.Int {
	msg := pedersen(assetID, ethAddress)
	return pedersen(msg, packWithdrawal(positionID, nonce, amount, expireHours))
}

// packWithdrawal packs orderType(10) | positionID(64) | nonce(32) |
// amount(64) | expireHours(32) | padding(49).
func packWithdrawal(positionID, nonce, amount, expireHours *big.Int) *big.Int {
	w := big.NewInt(orderTypeWithdrawalToAddress)
	w.Lsh(w, 64).Add(w, positionID)
	w.Lsh(w, 32).Add(w, nonce)
	w.Lsh(w, 64).Add(w, amount)
	w.Lsh(w, 32).Add(w, expireHours)
	return w.Lsh(w, 49)
}
