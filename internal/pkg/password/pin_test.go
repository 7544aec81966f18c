package password

import "testing"

func TestIsValidPIN(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	for _, pin := range valid {
		if !IsValidPIN(pin) {
			t.Errorf("IsValidPIN(%q) = false, want true", pin)
		}
	}

	invalid := []string{"", "123", "12345", "abcd", "12a4", "12 4", "١٢٣٤"}
	for _, pin := range invalid {
		if IsValidPIN(pin) {
			t.Errorf("IsValidPIN(%q) = true, want false", pin)
		}
	}
}

func TestPINHashRoundTrip(t *testing.T) {
	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	if hash == "1234" {
		t.Fatal("pin must not be stored in the clear")
	}
	if !VerifyPIN("1234", hash) {
		t.Fatal("correct pin must verify")
	}
	if VerifyPIN("4321", hash) {
		t.Fatal("wrong pin must not verify")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := Hash("hunter2hunter2")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !Verify("hunter2hunter2", hash) {
		t.Fatal("correct password must verify")
	}
	if Verify("wrong", hash) {
		t.Fatal("wrong password must not verify")
	}
}
