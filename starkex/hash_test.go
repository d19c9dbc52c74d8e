package starkex

import (
	"math/big"
	"testing"
)

func TestHexToBig(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0x1f", 31, false},
		{"1f", 31, false},
		{"0X0A", 10, false},
		{"0", 0, false},
		{"", 0, true},
		{"0x", 0, true},
		{"xyz", 0, true},
	}

	for _, tt := range tests {
		got, err := HexToBig(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("HexToBig(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("HexToBig(%q): %v", tt.in, err)
			continue
		}
		if got.Int64() != tt.want {
			t.Errorf("HexToBig(%q) = %v, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNonceFromClientID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := NonceFromClientID("client-abc")
		b := NonceFromClientID("client-abc")
		if a.Cmp(b) != 0 {
			t.Errorf("same client ID produced different nonces: %v vs %v", a, b)
		}
	})

	t.Run("distinct inputs", func(t *testing.T) {
		a := NonceFromClientID("client-abc")
		b := NonceFromClientID("client-abd")
		if a.Cmp(b) == 0 {
			t.Error("different client IDs produced identical nonces")
		}
	})

	t.Run("bounded", func(t *testing.T) {
		bound := new(big.Int).Lsh(big.NewInt(1), 32)
		for _, id := range []string{"", "a", "some-long-client-transfer-identifier"} {
			n := NonceFromClientID(id)
			if n.Sign() < 0 || n.Cmp(bound) >= 0 {
				t.Errorf("nonce %v for %q outside [0, 2^32)", n, id)
			}
		}
	})
}

func TestLimitOrderHash(t *testing.T) {
	synthetic := big.NewInt(1001)
	collateral := big.NewInt(2002)
	fee := big.NewInt(2002)
	args := []*big.Int{
		big.NewInt(100), big.NewInt(5000), big.NewInt(19),
		big.NewInt(777), big.NewInt(12345), big.NewInt(495000),
	}

	buy := LimitOrderHash(synthetic, collateral, fee, true, args[0], args[1], args[2], args[3], args[4], args[5])
	buyAgain := LimitOrderHash(synthetic, collateral, fee, true, args[0], args[1], args[2], args[3], args[4], args[5])
	sell := LimitOrderHash(synthetic, collateral, fee, false, args[0], args[1], args[2], args[3], args[4], args[5])

	if buy.Cmp(buyAgain) != 0 {
		t.Error("hash not deterministic")
	}
	if buy.Cmp(sell) == 0 {
		t.Error("buy and sell hashes must differ")
	}
	if buy.Sign() <= 0 {
		t.Errorf("hash should be positive, got %v", buy)
	}

	// Any field change must change the hash.
	bumpedNonce := LimitOrderHash(synthetic, collateral, fee, true, args[0], args[1], args[2], big.NewInt(778), args[4], args[5])
	if buy.Cmp(bumpedNonce) == 0 {
		t.Error("nonce change did not affect hash")
	}
}

func TestTransferHash(t *testing.T) {
	h1 := TransferHash(
		big.NewInt(3001), big.NewInt(0), big.NewInt(99999),
		big.NewInt(111), big.NewInt(222), big.NewInt(111),
		big.NewInt(42), big.NewInt(1000000), big.NewInt(0), big.NewInt(495000),
	)
	h2 := TransferHash(
		big.NewInt(3001), big.NewInt(0), big.NewInt(99999),
		big.NewInt(111), big.NewInt(222), big.NewInt(111),
		big.NewInt(42), big.NewInt(1000001), big.NewInt(0), big.NewInt(495000),
	)

	if h1.Sign() <= 0 {
		t.Errorf("hash should be positive, got %v", h1)
	}
	if h1.Cmp(h2) == 0 {
		t.Error("amount change did not affect hash")
	}
}

func TestWithdrawalToAddressHash(t *testing.T) {
	addr, err := HexToBig("0x8ba1f109551bd432803012645ac136ddd64dba72")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h1 := WithdrawalToAddressHash(big.NewInt(3001), big.NewInt(111), addr, big.NewInt(9), big.NewInt(5000000), big.NewInt(495000))
	h2 := WithdrawalToAddressHash(big.NewInt(3001), big.NewInt(112), addr, big.NewInt(9), big.NewInt(5000000), big.NewInt(495000))

	if h1.Sign() <= 0 {
		t.Errorf("hash should be positive, got %v", h1)
	}
	if h1.Cmp(h2) == 0 {
		t.Error("position change did not affect hash")
	}
}

func mustBig(t *testing.T, hex string) *big.Int {
	t.Helper()
	v, err := HexToBig(hex)
	if err != nil {
		t.Fatalf("HexToBig(%q): %v", hex, err)
	}
	return v
}

// Vectors from StarkWare's published Pedersen hash test data
// (starkware-libs/starkex-resources, signature_test_data.json).
func TestPedersenKnownVectors(t *testing.T) {
	tests := []struct {
		a, b, want string
	}{
		{
			"0x3d937c035c878245caf64531a5756109c53068da139362728feb561405371cb",
			"0x208a0a10250e382e1e4bbe2880906c2791bf6275695e02fbbc6aeff9cd8b31a",
			"0x30e480bed5fe53fa909cc0f8c4d99b8f9f2c016be4c41e13a4848797979c662",
		},
		{
			"0x58f580910a6ca59b28927c08fe6c43e2e303ca384badc365795fc645d479d45",
			"0x78734f65a067be9bdb39de18434d71e79f7b6466a4b66bbd979ab9e7515fe0b",
			"0x68cc0b76cddd1dd4ed2301ada9b7c872b23875d5ff837b3a87993e0d9996b87",
		},
	}

	for _, tt := range tests {
		got := pedersen(mustBig(t, tt.a), mustBig(t, tt.b))
		if got.Cmp(mustBig(t, tt.want)) != 0 {
			t.Errorf("pedersen(%s, %s) = %#x, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

// The packed words are checked against hand-assembled hex laid out per the
// StarkEx message encodings, so a wrong shift cannot cancel itself out.
func TestPackLimitOrderWords(t *testing.T) {
	amounts := packLimitOrderAmounts(
		big.NewInt(0x64), big.NewInt(0xc8), big.NewInt(0x3), big.NewInt(0x4))
	wantAmounts := mustBig(t, "0x6400000000000000c8000000000000000300000004")
	if amounts.Cmp(wantAmounts) != 0 {
		t.Errorf("amounts word = %#x, want %#x", amounts, wantAmounts)
	}

	positions := packLimitOrderPositions(big.NewInt(0x5), big.NewInt(0x6))
	wantPositions := mustBig(t, "0x6000000000000000a000000000000000a000000000000000a0000000c0000")
	if positions.Cmp(wantPositions) != 0 {
		t.Errorf("positions word = %#x, want %#x", positions, wantPositions)
	}
}

func TestPackTransferWords(t *testing.T) {
	positions := packTransferPositions(
		big.NewInt(0xb), big.NewInt(0x16), big.NewInt(0xb), big.NewInt(0x21))
	wantPositions := mustBig(t, "0xb0000000000000016000000000000000b00000021")
	if positions.Cmp(wantPositions) != 0 {
		t.Errorf("positions word = %#x, want %#x", positions, wantPositions)
	}

	amounts := packTransferAmounts(
		big.NewInt(0x123), big.NewInt(0), big.NewInt(0x21))
	wantAmounts := mustBig(t, "0x8000000000000024600000000000000000000004200000000000000000000")
	if amounts.Cmp(wantAmounts) != 0 {
		t.Errorf("amounts word = %#x, want %#x", amounts, wantAmounts)
	}
}

func TestPackWithdrawalWord(t *testing.T) {
	packed := packWithdrawal(
		big.NewInt(0x12), big.NewInt(0x34), big.NewInt(0x56), big.NewInt(0x12))
	want := mustBig(t, "0xe00000000000000240000006800000000000000ac00000024000000000000")
	if packed.Cmp(want) != 0 {
		t.Errorf("packed word = %#x, want %#x", packed, want)
	}
}
