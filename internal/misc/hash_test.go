package misc

import (
	"encoding/hex"
	"testing"
)

func TestSignSHA256(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		key   string
		want  string
	}{
		{"empty both", []byte{}, "", "b613679a0814d9ec772f95d778c35fc5ff1697c493715653c6c712144292c5ad"},
		{"hello/world", []byte("hello"), "world", "3cfa76ef14937c1c0ea519f8fc057a80fcd04a7420f8e8bcd0a7567c272e007b"},
		{"bytes/key", []byte{0x00, 0x01, 0x02}, "key", "f2fe10de7f2defb3bbdab2f98ece40d2cf13e8f261e9ab2c396724d7f796cb67"},
		{"nil value", nil, "", "b613679a0814d9ec772f95d778c35fc5ff1697c493715653c6c712144292c5ad"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SignSHA256(tc.value, tc.key)
			if got != tc.want {
				t.Fatalf("SignSHA256(%v, %q) = %s; want %s", tc.value, tc.key, got, tc.want)
			}
		})
	}
}

func TestSignSHA256_Prop(t *testing.T) {
	value := []byte("samevalue")
	key := "k1"
	got1 := SignSHA256(value, key)
	got2 := SignSHA256(value, key)
	if got1 != got2 {
		t.Fatalf("SignSHA256 not deterministic: %s != %s", got1, got2)
	}

	other := SignSHA256(value, "k2")
	if got1 == other {
		t.Fatalf("different keys produced same signature: %s == %s", got1, other)
	}

	decoded, err := hex.DecodeString(got1)
	if err != nil {
		t.Fatalf("result is not valid hex: %v", err)
	}
	if len(decoded) != 32 {
		t.Fatalf("decoded length = %d, want 32", len(decoded))
	}
}

func TestValidSignature(t *testing.T) {
	value := []byte(`{"outcome":"success"}`)
	sig := SignSHA256(value, "k1")

	if !ValidSignature(value, "k1", sig) {
		t.Fatal("signature did not verify under its own key")
	}
	if ValidSignature(value, "k2", sig) {
		t.Fatal("signature verified under the wrong key")
	}
	if ValidSignature([]byte("tampered"), "k1", sig) {
		t.Fatal("signature verified for a different body")
	}
	if ValidSignature(value, "k1", "not-hex") {
		t.Fatal("non-hex signature verified")
	}
}
