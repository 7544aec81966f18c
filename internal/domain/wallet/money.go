package wallet

import "math"

// Amounts cross the wire as naira decimals; the ledger stores kobo so
// balance arithmetic never touches binary floats.

const koboPerNaira = 100

// maxNaira guards the float-to-int conversion against overflow.
const maxNaira = float64(math.MaxInt64) / koboPerNaira

// NairaToKobo converts a wire amount to minor units. Fails with
// ErrInvalidAmount unless the amount is a finite positive number.
func NairaToKobo(naira float64) (int64, error) {
	if math.IsNaN(naira) || math.IsInf(naira, 0) {
		return 0, ErrInvalidAmount
	}
	if naira <= 0 || naira >= maxNaira {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(naira * koboPerNaira)), nil
}

// KoboToNaira converts minor units back to a display decimal.
func KoboToNaira(kobo int64) float64 {
	return float64(kobo) / koboPerNaira
}
