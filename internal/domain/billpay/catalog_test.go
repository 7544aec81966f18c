package billpay

import (
	"errors"
	"testing"
)

func TestDataPlanPrice(t *testing.T) {
	cases := map[string]int64{
		"1GB":  500_00,
		"5GB":  2000_00,
		"10GB": 3500_00,
	}
	for plan, want := range cases {
		got, err := DataPlanPrice(plan)
		if err != nil {
			t.Fatalf("DataPlanPrice(%s): %v", plan, err)
		}
		if got != want {
			t.Errorf("DataPlanPrice(%s) = %d, want %d", plan, got, want)
		}
	}
	if _, err := DataPlanPrice("100GB"); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestTvPlanPrice(t *testing.T) {
	cases := map[string]int64{
		"Basic":    1000_00,
		"Premium":  2500_00,
		"Ultimate": 5000_00,
	}
	for plan, want := range cases {
		got, err := TvPlanPrice(plan)
		if err != nil {
			t.Fatalf("TvPlanPrice(%s): %v", plan, err)
		}
		if got != want {
			t.Errorf("TvPlanPrice(%s) = %d, want %d", plan, got, want)
		}
	}
}

func TestTvBillerCode(t *testing.T) {
	cases := map[string]string{
		"dstv":      "BIL119",
		"GOTV":      "BIL120",
		"Startimes": "BIL121",
	}
	for provider, want := range cases {
		got, err := TvBillerCode(provider)
		if err != nil {
			t.Fatalf("TvBillerCode(%s): %v", provider, err)
		}
		if got != want {
			t.Errorf("TvBillerCode(%s) = %s, want %s", provider, got, want)
		}
	}
	if _, err := TvBillerCode("netflix"); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestBillTypes(t *testing.T) {
	if got := AirtimeBillType("mtn"); got != "MTN" {
		t.Errorf("AirtimeBillType(mtn) = %s", got)
	}
	if got := DataBillType("glo"); got != "GLO_DATA" {
		t.Errorf("DataBillType(glo) = %s", got)
	}
	if got := TvBillType("gotv"); got != "GOTV" {
		t.Errorf("TvBillType(gotv) = %s", got)
	}
}
