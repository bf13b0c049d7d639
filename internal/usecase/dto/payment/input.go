package paymentdto

type CreatePaymentInput struct {
	UserID      string
	PayCurrency string
}

type ListPaymentsInput struct {
	UserID string
	Status string
	Page   int
	Limit  int
}
