package checkout

// SubmitResponse carries the confirmation returned by a completed order.
type SubmitResponse struct {
	TrackingNumber string `json:"order_tracking_number"`
}

// OptionsResponse lists the selectable card expiration windows.
type OptionsResponse struct {
	ExpirationMonths []int `json:"expiration_months"`
	ExpirationYears  []int `json:"expiration_years"`
}
