package paymentprovider

// Запрос на создание сессии оплаты подписки
type CreateSessionRequest struct {
	AmountCents int               `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Сессия оплаты на стороне провайдера. URL ведёт на hosted-страницу
// оплаты, статус меняется на "paid" после успешного списания.
type Session struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	Status      string            `json:"status"`
	AmountCents int               `json:"amount_cents"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Paid сообщает, что сессия успешно оплачена.
func (s *Session) Paid() bool {
	return s.Status == "paid"
}
