package models

// RequestResult is the envelope every business outcome is reported in.
type RequestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CreatePaymentArgs struct {
	Clients []string `json:"clients"`
}

type VerifyPaymentArgs struct {
	Authority string `json:"authority"`
}
