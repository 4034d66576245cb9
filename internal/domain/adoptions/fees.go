package adoptions

import (
	"encoding/json"
	"time"

	"pet-adoption-hub/internal/platform/money"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type Fee struct {
	Description string      `json:"description"`
	Amount      money.Cents `json:"amount"`
}

type Payment struct {
	Amount     money.Cents `json:"amount"`
	Method     string      `json:"method"`
	Reference  string      `json:"reference,omitempty"`
	PaidAt     time.Time   `json:"paid_at"`
	RecordedBy string      `json:"recorded_by,omitempty"`
}

// Fees guarda solo los montos de origen, en centavos. Total y estado de pago
// se derivan, así no pueden quedar desincronizados.
type Fees struct {
	AdoptionFee    money.Cents `json:"adoption_fee"`
	AdditionalFees []Fee       `json:"additional_fees"`
	Paid           money.Cents `json:"paid"`
	Payments       []Payment   `json:"payments"`
}

func (f Fees) Total() money.Cents {
	total := f.AdoptionFee
	for _, fee := range f.AdditionalFees {
		total += fee.Amount
	}
	return total
}

func (f Fees) Balance() money.Cents {
	b := f.Total() - f.Paid
	if b < 0 {
		return 0
	}
	return b
}

func (f Fees) PaymentStatus() PaymentStatus {
	switch {
	case f.Paid <= 0:
		if f.Total() <= 0 {
			return PaymentPaid
		}
		return PaymentPending
	case f.Paid >= f.Total():
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// fullyPaid: hay algo que cobrar (o nada) y ya se cubrió.
func (f Fees) fullyPaid() bool {
	return f.PaymentStatus() == PaymentPaid
}

type feesJSON struct {
	AdoptionFee    money.Cents `json:"adoption_fee"`
	AdditionalFees []Fee       `json:"additional_fees"`
	Total          money.Cents `json:"total"`
	Paid           money.Cents `json:"paid"`
	PaymentStatus  string      `json:"payment_status"`
	Payments       []Payment   `json:"payments"`
}

// MarshalJSON incluye total y payment_status. Al leer se ignoran y se recalculan.
func (f Fees) MarshalJSON() ([]byte, error) {
	additional := f.AdditionalFees
	if additional == nil {
		additional = []Fee{}
	}
	payments := f.Payments
	if payments == nil {
		payments = []Payment{}
	}
	return json.Marshal(feesJSON{
		AdoptionFee:    f.AdoptionFee,
		AdditionalFees: additional,
		Total:          f.Total(),
		Paid:           f.Paid,
		PaymentStatus:  string(f.PaymentStatus()),
		Payments:       payments,
	})
}

func (f *Fees) UnmarshalJSON(b []byte) error {
	var raw feesJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = Fees{
		AdoptionFee:    raw.AdoptionFee,
		AdditionalFees: raw.AdditionalFees,
		Paid:           raw.Paid,
		Payments:       raw.Payments,
	}
	return nil
}
