package model

// PurchaseIntent is built from a buy callback and consumed immediately by
// the payment service. It is never persisted.
type PurchaseIntent struct {
	UserID    int64
	ChatID    int64
	ProductID string
}

// PreCheckoutQuery carries the fields Telegram sends before capturing funds.
type PreCheckoutQuery struct {
	ID          string
	UserID      int64
	Payload     string
	TotalAmount int
	Currency    string
}

// PaymentEvent is a confirmed payment, either relayed from Telegram or
// synthesized by the simulation flow. Payload plus ChargeID identifies a
// purchase uniquely across delivery retries.
type PaymentEvent struct {
	ChatID      int64
	UserID      int64
	Payload     string
	TotalAmount int
	Currency    string
	ChargeID    string
	Simulated   bool
}
