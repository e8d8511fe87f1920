package shade

import "testing"

func TestParseAddress(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{input: "secret1k0jntykt7e4g3y88ltc60czgjuqdy4c9e8fzek"},
		{input: "cosmos1xy2z7w9"},
		{input: string(testAdmin)},
		{input: "", wantErr: true},
		{input: "secret1", wantErr: true},               // no data part
		{input: "SECRET1K0JNTYK7E4G", wantErr: true},    // bech32 is lowercase
		{input: "1k0jntykt7e4g", wantErr: true},         // no prefix
		{input: "secret1k0jbtyk7e4g", wantErr: true},    // 'b' is not in the charset
		{input: "secret", wantErr: true},                // no separator
		{input: "secret1k0j ntyk7e4g", wantErr: true},   // whitespace
		{input: "averylongprefix1k0jntyk", wantErr: true}, // prefix over 10 chars
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAddress(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.input {
				t.Errorf("got %q, want %q", got, tt.input)
			}
		})
	}
}

func TestNewContract(t *testing.T) {
	if _, err := NewContract(testToken, testTokenHash); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewContract("bogus", testTokenHash); err == nil {
		t.Errorf("bogus address should not validate")
	}
	if _, err := NewContract(testToken, "nothex"); err == nil {
		t.Errorf("short code hash should not validate")
	}
	if _, err := NewContract(testToken, testTokenHash[:63]+"x"); err == nil {
		t.Errorf("non-hex code hash should not validate")
	}
}
