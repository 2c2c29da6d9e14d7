package manager

import (
	"context"
	"sync"

	"github.com/jrsteele09/gym-checkin/payments"
)

// Payments lists and records athlete payments for a filter.
type Payments struct {
	backend PaymentsBackend

	mu     sync.Mutex
	filter payments.Filter
	list   []payments.AthletePayment
}

func NewPayments(backend PaymentsBackend) *Payments {
	return &Payments{backend: backend}
}

// Load replaces the filter and fetches the matching payments.
func (v *Payments) Load(ctx context.Context, f payments.Filter) error {
	list, err := v.backend.Payments(ctx, f)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
	v.list = list
	return nil
}

func (v *Payments) List() []payments.AthletePayment {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]payments.AthletePayment(nil), v.list...)
}

func (v *Payments) Totals() (paid, outstanding float64) {
	return payments.Totals(v.List())
}

func (v *Payments) Record(ctx context.Context, p payments.NewPayment) (*payments.AthletePayment, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	created, err := v.backend.CreatePayment(ctx, p)
	if err != nil {
		return nil, err
	}
	return created, v.reload(ctx)
}

func (v *Payments) MarkPaid(ctx context.Context, id int) error {
	if _, err := v.backend.MarkPaid(ctx, id); err != nil {
		return err
	}
	return v.reload(ctx)
}

func (v *Payments) reload(ctx context.Context) error {
	v.mu.Lock()
	f := v.filter
	v.mu.Unlock()
	return v.Load(ctx, f)
}
