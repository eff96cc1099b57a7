package payments

import "time"

type CreatePaymentRequest struct {
	ContactID    int64       `json:"contact_id" validate:"required,gt=0"`
	Montant      float64     `json:"montant" validate:"required,gt=0"`
	Mode         PaymentMode `json:"mode_paiement" validate:"required"`
	Reference    string      `json:"reference,omitempty" validate:"max=100"`
	DatePaiement time.Time   `json:"date_paiement" validate:"required"`
	Notes        string      `json:"notes,omitempty" validate:"max=500"`
}

type UpdatePaymentRequest struct {
	Montant      *float64     `json:"montant,omitempty" validate:"omitempty,gt=0"`
	Mode         *PaymentMode `json:"mode_paiement,omitempty"`
	Reference    *string      `json:"reference,omitempty" validate:"omitempty,max=100"`
	DatePaiement *time.Time   `json:"date_paiement,omitempty"`
	Statut       *string      `json:"statut,omitempty" validate:"omitempty,max=50"`
	Notes        *string      `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type ListPaymentsRequest struct {
	ContactID *int64     `json:"contact_id,omitempty"`
	DateFrom  *time.Time `json:"date_from,omitempty"`
	DateTo    *time.Time `json:"date_to,omitempty"`
	Page      int        `json:"page" validate:"gte=0"`
	PerPage   int        `json:"per_page" validate:"gte=0,lte=1000"`
}
