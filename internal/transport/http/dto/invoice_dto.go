package dto

type CreateInvoiceRequest struct {
	ProductID string `json:"productId"`
	UserID    int64  `json:"userId"`
}

type CreateInvoiceResponse struct {
	Success    bool         `json:"success"`
	InvoiceURL string       `json:"invoiceUrl"`
	Message    string       `json:"message"`
	Debug      InvoiceDebug `json:"debug"`
}

type InvoiceDebug struct {
	ProductID string `json:"productId"`
	UserID    int64  `json:"userId"`
}
