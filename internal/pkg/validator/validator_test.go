package validator

import "testing"

type purchaseForm struct {
	Network       string `json:"network" validate:"required,network"`
	Pin           string `json:"pin" validate:"required,pin"`
	PaymentMethod string `json:"paymentMethod" validate:"payment_method"`
}

type tvForm struct {
	Provider string `json:"provider" validate:"required,tv_provider"`
}

func TestValidateCustomTags(t *testing.T) {
	if errs := Validate(purchaseForm{Network: "mtn", Pin: "1234", PaymentMethod: "wallet"}); errs != nil {
		t.Fatalf("expected valid form, got %v", errs)
	}
	if errs := Validate(purchaseForm{Network: "9mobile", Pin: "0000", PaymentMethod: ""}); errs != nil {
		t.Fatalf("empty payment method defaults to wallet, got %v", errs)
	}

	errs := Validate(purchaseForm{Network: "verizon", Pin: "12ab", PaymentMethod: "cash"})
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	for _, field := range []string{"network", "pin", "paymentMethod"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error keyed by json name %q, got %v", field, errs)
		}
	}
}

func TestValidateTvProvider(t *testing.T) {
	for _, provider := range []string{"dstv", "GOTV", "Startimes"} {
		if errs := Validate(tvForm{Provider: provider}); errs != nil {
			t.Errorf("provider %q should be valid, got %v", provider, errs)
		}
	}
	if errs := Validate(tvForm{Provider: "netflix"}); errs == nil {
		t.Fatal("unknown provider must fail validation")
	}
}

func TestValidateRequired(t *testing.T) {
	errs := Validate(purchaseForm{})
	if errs == nil {
		t.Fatal("expected errors for empty form")
	}
	if errs["network"] != "This field is required" {
		t.Fatalf("unexpected message %q", errs["network"])
	}
}
