package domain

// CardDetails holds the card data derived from the payment form.
// Each field is written only by the validation routine that vouches for it.
type CardDetails struct {
	// Number is the card number with separators stripped.
	Number string `json:"number,omitempty"`

	// Network is the detected network tag (e.g. "visa").
	Network string `json:"network,omitempty"`

	// NetworkName is the display name of the network (e.g. "Visa").
	NetworkName string `json:"network_name,omitempty"`

	Holder string `json:"holder,omitempty"`

	ExpiryMonth int `json:"expiry_month,omitempty"`

	// ExpiryYear is the four-digit year.
	ExpiryYear int `json:"expiry_year,omitempty"`

	CVV string `json:"cvv,omitempty"`
}

// LastFour returns the trailing four digits of the validated number.
func (c CardDetails) LastFour() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}
