package model

type PurchaseHistoryRequest struct {
	Cpf string `json:"cpf" validate:"required"`
}

type PurchaseTransactionResponse struct {
	Id        string  `json:"id"`
	Status    string  `json:"status"`
	Value     float64 `json:"value"`
	GatewayId string  `json:"gatewayId"`
}

type PurchaseOrderResponse struct {
	Id               string                        `json:"id"`
	DisplayOrderCode string                        `json:"displayOrderCode"`
	Amount           float64                       `json:"amount"`
	Status           string                        `json:"status"`
	CreatedAt        string                        `json:"createdAt"`
	Quantity         int32                         `json:"quantity"`
	Numbers          []int64                       `json:"numbers"`
	Transactions     []PurchaseTransactionResponse `json:"transactions"`
}

type PurchaseHistoryResponse struct {
	Ok     bool                    `json:"ok"`
	Orders []PurchaseOrderResponse `json:"orders"`
}
