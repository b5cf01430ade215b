package models

type Address struct {
	HouseNo  string   `json:"house_no"`
	Flat     string   `json:"flat,omitempty"`
	Address1 string   `json:"address1"`
	Address2 string   `json:"address2,omitempty"`
	City     string   `json:"city"`
	Postcode string   `json:"postcode"`
	Pin      Location `json:"pin"`
	// Label is the human-readable address resolved from Pin, if any.
	Label string `json:"label,omitempty"`
}

// HasPin reports whether the customer dropped a map pin for this address.
func (a Address) HasPin() bool {
	return a.Pin != (Location{}) && a.Pin.Valid()
}
