package utils

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConvertToDecimal(t *testing.T) {
	d, err := ConvertToDecimal(" 12.50 ")
	if err != nil {
		t.Fatalf("ConvertToDecimal: %v", err)
	}
	if d.String() != "12.5" {
		t.Errorf("got %s, want 12.5", d)
	}

	if _, err := ConvertToDecimal(""); err == nil {
		t.Error("empty string must fail")
	}
	if _, err := ConvertToDecimal("abc"); err == nil {
		t.Error("non-numeric string must fail")
	}
}

func TestConvertToDate(t *testing.T) {
	at := time.Date(2026, 8, 25, 17, 45, 3, 0, time.UTC)
	got, err := ConvertToDate(at, "")
	if err != nil {
		t.Fatalf("ConvertToDate: %v", err)
	}
	want := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ConvertToDate(at, "No/SuchZone"); err == nil {
		t.Error("bad timezone must fail")
	}
}

func TestErrorCode(t *testing.T) {
	err := InsufficientStockError("short by %d", 3)
	if !IsCode(err, CodeInsufficientStock) {
		t.Errorf("code = %s, want %s", ErrorCode(err), CodeInsufficientStock)
	}

	wrapped := fmt.Errorf("confirm failed: %w", err)
	if !IsCode(wrapped, CodeInsufficientStock) {
		t.Error("code must survive wrapping")
	}

	if ErrorCode(errors.New("plain")) != "" {
		t.Error("plain error must carry no code")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(string(hash), "s3cret"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := ComparePassword(string(hash), "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}
