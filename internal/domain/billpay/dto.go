package billpay

// AirtimeRequest for POST /api/airtime
type AirtimeRequest struct {
	Network       string  `json:"network" validate:"required,network"`
	Phone         string  `json:"phone" validate:"required,min=11,max=14"`
	Amount        float64 `json:"amount" validate:"required"`
	Pin           string  `json:"pin" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" validate:"payment_method"`
	AccountNumber string  `json:"accountNumber"`
	UserEmail     string  `json:"userEmail" validate:"required,email"`
}

// DataRequest for POST /api/data
type DataRequest struct {
	Phone     string `json:"phone" validate:"required,min=11,max=14"`
	Plan      string `json:"plan" validate:"required"`
	Network   string `json:"network" validate:"required,network"`
	Pin       string `json:"pin" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
}

// BetRequest for POST /api/bet
type BetRequest struct {
	Stake     float64 `json:"stake" validate:"required"`
	Odds      string  `json:"odds" validate:"required"`
	Pin       string  `json:"pin" validate:"required"`
	UserEmail string  `json:"userEmail" validate:"required,email"`
}

// TvRequest for POST /api/tv
type TvRequest struct {
	Provider      string `json:"provider" validate:"required,tv_provider"`
	Plan          string `json:"plan" validate:"required"`
	Smartcard     string `json:"smartcard" validate:"required"`
	Pin           string `json:"pin" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"payment_method"`
	AccountNumber string `json:"accountNumber"`
	UserEmail     string `json:"userEmail" validate:"required,email"`
}
