package billpay

import "errors"

var (
	ErrInvalidPlan = errors.New("invalid plan")
)
