package cart

// AddItemRequest identifies the catalog product being added.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}
