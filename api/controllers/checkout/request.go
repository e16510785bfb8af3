package checkout

import (
	"github.com/autostore/storefront-backend/internal/checkoutform"
)

// SubmitRequest carries the entered checkout form. Field-level validation is
// the form's job, so the request shape itself stays unvalidated.
type SubmitRequest struct {
	Customer              customerRequest `json:"customer"`
	ShippingAddress       addressRequest  `json:"shipping_address"`
	BillingAddress        addressRequest  `json:"billing_address"`
	BillingSameAsShipping bool            `json:"billing_same_as_shipping"`
	CreditCard            cardRequest     `json:"credit_card"`
}

type customerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type addressRequest struct {
	StreetNo     string `json:"street_no"`
	Street       string `json:"street"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	Country      string `json:"country"`
	ZipCode      string `json:"zip_code"`
}

type cardRequest struct {
	Type            string `json:"card_type"`
	NameOnCard      string `json:"name_on_card"`
	Number          string `json:"card_number"`
	SecurityCode    string `json:"security_code"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
}

func (r SubmitRequest) toFormValues() checkoutform.Values {
	return checkoutform.Values{
		Customer: checkoutform.Customer{
			FirstName: r.Customer.FirstName,
			LastName:  r.Customer.LastName,
			Email:     r.Customer.Email,
		},
		Shipping: toAddress(r.ShippingAddress),
		Billing:  toAddress(r.BillingAddress),
		Card: checkoutform.Card{
			Type:            r.CreditCard.Type,
			NameOnCard:      r.CreditCard.NameOnCard,
			Number:          r.CreditCard.Number,
			SecurityCode:    r.CreditCard.SecurityCode,
			ExpirationMonth: r.CreditCard.ExpirationMonth,
			ExpirationYear:  r.CreditCard.ExpirationYear,
		},
	}
}

func toAddress(a addressRequest) checkoutform.Address {
	return checkoutform.Address{
		StreetNo:     a.StreetNo,
		Street:       a.Street,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		Country:      a.Country,
		ZipCode:      a.ZipCode,
	}
}
