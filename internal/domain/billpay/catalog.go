package billpay

import "strings"

// Plan catalogs. Prices are kobo; the provider-facing biller types follow
// the Flutterwave Bills API naming (MTN, MTN_DATA, DSTV, ...).

// dataPlans maps a bundle name to its price.
var dataPlans = map[string]int64{
	"1GB":  500_00,
	"5GB":  2000_00,
	"10GB": 3500_00,
}

// tvPlans maps a subscription tier to its price.
var tvPlans = map[string]int64{
	"Basic":    1000_00,
	"Premium":  2500_00,
	"Ultimate": 5000_00,
}

// tvBillerCodes maps a provider to its biller code.
var tvBillerCodes = map[string]string{
	"DSTV":      "BIL119",
	"GOTV":      "BIL120",
	"STARTIMES": "BIL121",
}

// DataPlanPrice returns the price of a data bundle, or ErrInvalidPlan.
func DataPlanPrice(plan string) (int64, error) {
	price, ok := dataPlans[plan]
	if !ok {
		return 0, ErrInvalidPlan
	}
	return price, nil
}

// TvPlanPrice returns the price of a TV tier, or ErrInvalidPlan.
func TvPlanPrice(plan string) (int64, error) {
	price, ok := tvPlans[plan]
	if !ok {
		return 0, ErrInvalidPlan
	}
	return price, nil
}

// TvBillerCode returns the biller code for a TV provider, or ErrInvalidPlan
// for an unknown provider.
func TvBillerCode(provider string) (string, error) {
	code, ok := tvBillerCodes[strings.ToUpper(provider)]
	if !ok {
		return "", ErrInvalidPlan
	}
	return code, nil
}

// AirtimeBillType maps a network to the provider's airtime biller type.
func AirtimeBillType(network string) string {
	return strings.ToUpper(network)
}

// DataBillType maps a network to the provider's data-bundle biller type.
func DataBillType(network string) string {
	return strings.ToUpper(network) + "_DATA"
}

// TvBillType maps a provider to the provider's TV biller type.
func TvBillType(provider string) string {
	return strings.ToUpper(provider)
}
