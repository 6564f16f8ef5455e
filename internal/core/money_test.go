package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{" 2000 ", 200000, true},
		{"12.345", 1235, true}, // half-up on the third decimal
		{"12.344", 1234, true},
		{"0.01", 1, true},
		{"", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		m, err := ParseAmount(tc.in)
		if tc.ok && (err != nil || m.Cents != tc.cents) {
			t.Fatalf("ParseAmount(%q) = %d, %v; want %d", tc.in, m.Cents, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseAmount(%q) expected error", tc.in)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatal("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); err == nil {
		t.Fatal("expected error for negative")
	}
}

func TestMoneyString(t *testing.T) {
	if got := (Money{Cents: 1234}).String(); got != "12.34" {
		t.Fatalf("expected 12.34, got %s", got)
	}
	if got := (Money{Cents: -50}).String(); got != "-0.50" {
		t.Fatalf("expected -0.50, got %s", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: Money{Cents: 1234}})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"amount":12.34}` {
		t.Fatalf("unexpected JSON: %s", out)
	}

	var in payload
	if err := json.Unmarshal([]byte(`{"amount":2000}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Amount.Cents != 200000 {
		t.Fatalf("expected 200000 cents, got %d", in.Amount.Cents)
	}

	if err := json.Unmarshal([]byte(`{"amount":"15.50"}`), &in); err != nil {
		t.Fatal(err)
	}
	if in.Amount.Cents != 1550 {
		t.Fatalf("expected 1550 cents, got %d", in.Amount.Cents)
	}
}
