package model

// Product is a catalog entry. The ID doubles as the invoice payload and must
// round-trip unchanged through Telegram's payment events.
type Product struct {
	ID            string
	Title         string
	Description   string
	PriceStars    int
	PhotoURL      string
	SecretContent string
}
