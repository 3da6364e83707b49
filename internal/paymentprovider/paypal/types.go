package paypal

// StatusCompleted is the provider status of a fully captured order.
const StatusCompleted = "COMPLETED"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type createOrderRequest struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	Amount purchaseAmount `json:"amount"`
}

type purchaseAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// OrderResponse is the provider order as returned by both create and
// capture calls.
type OrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links"`
}

type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}
