package exchange

import (
	"strings"
	"testing"
)

func TestSignKnownVector(t *testing.T) {
	signer := NewSigner("test-secret")

	pairs := []string{
		"symbol=BTCUSDT",
		"side=BUY",
		"type=MARKET",
		"quantity=0.001",
		"timestamp=1700000000000",
		"recvWindow=5000",
	}

	got := signer.Sign(pairs)
	want := "symbol=BTCUSDT&side=BUY&type=MARKET&quantity=0.001&timestamp=1700000000000&recvWindow=5000" +
		"&signature=c995f023d9416de06ae83a98bf0fac960749aad4b7e36345182c93cb40e01481"

	if got != want {
		t.Fatalf("Sign() = %q, want %q", got, want)
	}
}

func TestSignPreservesPairOrder(t *testing.T) {
	signer := NewSigner("test-secret")

	got := signer.Sign([]string{"symbol=BTCUSDT", "side=SELL"})
	want := "symbol=BTCUSDT&side=SELL&signature=99874e3cf1f9b3262e8e49fbf5a4cf4c47cb1b4cbb394f35f1fe9792916060c5"

	if got != want {
		t.Fatalf("Sign() = %q, want %q", got, want)
	}
}

func TestSignDeterministic(t *testing.T) {
	signer := NewSigner("test-secret")
	pairs := []string{"symbol=ETHUSDT", "side=BUY", "quantity=1"}

	first := signer.Sign(pairs)
	second := signer.Sign(pairs)
	if first != second {
		t.Fatalf("identical inputs produced different payloads: %q vs %q", first, second)
	}

	if !strings.Contains(first, "&signature=") {
		t.Fatalf("signed payload missing signature field: %q", first)
	}
	if !strings.HasPrefix(first, "symbol=ETHUSDT&side=BUY&quantity=1&") {
		t.Fatalf("signed payload reordered pairs: %q", first)
	}
}

func TestSignerTrimsSecret(t *testing.T) {
	plain := NewSigner("test-secret").Sign([]string{"a=1"})
	padded := NewSigner("  test-secret \n").Sign([]string{"a=1"})

	if plain != padded {
		t.Fatalf("whitespace around the secret changed the signature: %q vs %q", plain, padded)
	}
}
