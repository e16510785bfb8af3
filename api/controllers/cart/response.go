package cart

import (
	cartsvc "github.com/autostore/storefront-backend/internal/cart"
)

// CartView is the API shape of a cart: its entries plus the current totals.
type CartView struct {
	Items  []cartsvc.LineItem `json:"items"`
	Totals cartsvc.Totals     `json:"totals"`
}

func newCartView(manager *cartsvc.Manager) CartView {
	return CartView{
		Items:  manager.Items(),
		Totals: manager.Totals(),
	}
}
