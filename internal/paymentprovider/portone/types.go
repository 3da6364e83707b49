package portone

// Payment statuses the provider reports. Only PAID completes an order;
// VIRTUAL_ACCOUNT_ISSUED means the buyer was given a transfer account
// and no money has moved yet.
const (
	StatusPaid                 = "PAID"
	StatusVirtualAccountIssued = "VIRTUAL_ACCOUNT_ISSUED"
)

// PaymentResponse is the provider-side payment record.
type PaymentResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Amount    Amount `json:"amount"`
	Currency  string `json:"currency"`
	OrderName string `json:"orderName"`
}

// Amount holds the money fields of a provider payment. Total is the
// figure compared against the locally recorded amount.
type Amount struct {
	Total    float64 `json:"total"`
	TaxFree  float64 `json:"taxFree"`
	Vat      float64 `json:"vat"`
	Supply   float64 `json:"supply"`
	Discount float64 `json:"discount"`
	Paid     float64 `json:"paid"`
}
