package shade

import "testing"

func TestTokenInfoDisplay(t *testing.T) {
	shd := TokenInfo{Name: "Shade", Symbol: "SHD", Decimals: 8}
	silk := TokenInfo{Name: "Silk", Symbol: "SILK", Decimals: 6}

	tests := []struct {
		info   TokenInfo
		amount string
		want   string
	}{
		{shd, "0", "0.00000000 SHD"},
		{shd, "1250000000", "12.50000000 SHD"},
		{shd, "123456789012", "1,234.56789012 SHD"},
		{silk, "700", "0.000700 SILK"},
		// beyond int64 base units the exact exponent-shifted form is used
		{shd, "123456789012345678901234567891", "1234567890123456789012.34567891 SHD"},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := tt.info.Display(mustAmount(t, tt.amount))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssetString(t *testing.T) {
	a := Asset{Contract: tokenContract, Token: TokenInfo{Name: "Shade", Symbol: "SHD", Decimals: 8}}
	if got, want := a.String(), "SHD ("+string(testToken)+")"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if a.Address() != testToken {
		t.Errorf("Address() = %s", a.Address())
	}
}
