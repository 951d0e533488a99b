// Package composer assembles draft bills from charges and dispensed medicines
// and finalizes them into saveable bills.
//
// Drafts are values: every operation returns a new Draft and leaves its input
// untouched, so a rejected operation hands back its input.
package composer

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/pharmabill/internal/bill/domain"
	"github.com/smallbiznis/pharmabill/internal/clock"
	"github.com/smallbiznis/pharmabill/internal/idgen"
	medicinedomain "github.com/smallbiznis/pharmabill/internal/medicine/domain"
	"github.com/smallbiznis/pharmabill/internal/observability/metrics"
	"github.com/smallbiznis/pharmabill/internal/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Lookup is the read-only view of the catalog the composer prices from.
type Lookup interface {
	Get(ctx context.Context, id string) (*medicinedomain.Medicine, error)
}

// Draft is an in-progress bill. ID is empty until the bill has been saved
// once.
type Draft struct {
	ID           string                `json:"id,omitempty"`
	CustomerName string                `json:"customer_name"`
	Date         string                `json:"date"`
	Discount     float64               `json:"discount"`
	Charges      []domain.Charge       `json:"charges"`
	Medicines    []domain.BillMedicine `json:"medicines"`
}

func (d Draft) clone() Draft {
	out := d
	out.Charges = domain.CloneCharges(d.Charges)
	out.Medicines = domain.CloneMedicines(d.Medicines)
	return out
}

// Subtotal sums every charge amount and medicine line total.
func (d Draft) Subtotal() float64 {
	return domain.Subtotal(d.Charges, d.Medicines)
}

// Total is Subtotal minus Discount, negative when the discount is larger.
func (d Draft) Total() float64 {
	return domain.Total(d.Subtotal(), d.Discount)
}

type Params struct {
	fx.In

	Log     *zap.Logger
	GenID   idgen.Generator
	Catalog Lookup
	Clock   clock.Clock
	Metrics *metrics.Metrics `optional:"true"`
}

type Composer struct {
	log     *zap.Logger
	genID   idgen.Generator
	catalog Lookup
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Params) *Composer {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Composer{
		log:     p.Log.Named("bill.composer"),
		genID:   p.GenID,
		catalog: p.Catalog,
		clock:   clk,
		metrics: p.Metrics,
	}
}

// NewDraft starts an empty bill dated today.
func (c *Composer) NewDraft() Draft {
	return Draft{
		Date:      clock.Today(c.clock),
		Charges:   []domain.Charge{},
		Medicines: []domain.BillMedicine{},
	}
}

// OpenDraft reopens a saved bill for editing, keeping its id and snapshots.
func OpenDraft(bill domain.Bill) Draft {
	return Draft{
		ID:           bill.ID,
		CustomerName: bill.CustomerName,
		Date:         bill.Date,
		Discount:     bill.Discount,
		Charges:      domain.CloneCharges(bill.Charges),
		Medicines:    domain.CloneMedicines(bill.Medicines),
	}
}

func (c *Composer) AddCharge(d Draft, description string, amount float64) (Draft, error) {
	errs := validation.Errors{}
	errs.Check(validation.NonBlank(description), "description", "Description is required")
	errs.Check(validation.Positive(amount), "amount", "Amount must be greater than 0")
	if err := errs.Err(); err != nil {
		c.metrics.RecordValidationFailure(metrics.EntityDraft)
		return d, err
	}

	out := d.clone()
	out.Charges = append(out.Charges, domain.Charge{
		ID:          c.genID.NewID(),
		Description: strings.TrimSpace(description),
		Amount:      amount,
	})
	return out, nil
}

// RemoveCharge drops the charge with chargeID; unknown ids are ignored.
func RemoveCharge(d Draft, chargeID string) Draft {
	out := d.clone()
	kept := out.Charges[:0]
	for _, charge := range out.Charges {
		if charge.ID != chargeID {
			kept = append(kept, charge)
		}
	}
	out.Charges = kept
	return out
}

// AddMedicine prices quantity units of the catalog medicine and appends a
// snapshot line. A medicine missing from the catalog leaves the draft
// unchanged without error.
func (c *Composer) AddMedicine(ctx context.Context, d Draft, medicineID string, quantity int) (Draft, error) {
	medicineID = strings.TrimSpace(medicineID)

	errs := validation.Errors{}
	errs.Check(medicineID != "", "medicineId", "Please select a medicine")
	errs.Check(quantity > 0, "quantity", "Quantity must be greater than 0")
	if err := errs.Err(); err != nil {
		c.metrics.RecordValidationFailure(metrics.EntityDraft)
		return d, err
	}

	medicine, err := c.catalog.Get(ctx, medicineID)
	if err != nil {
		if errors.Is(err, medicinedomain.ErrNotFound) {
			c.log.Warn("medicine not in catalog, line skipped", zap.String("medicine_id", medicineID))
			return d, nil
		}
		return d, err
	}

	out := d.clone()
	out.Medicines = append(out.Medicines, domain.BillMedicine{
		ID:           c.genID.NewID(),
		MedicineID:   medicine.ID,
		MedicineName: medicine.Name,
		Quantity:     quantity,
		UnitPrice:    medicine.Price,
		Total:        medicine.Price * float64(quantity),
	})
	return out, nil
}

// RemoveMedicine drops the medicine line with lineID; unknown ids are ignored.
func RemoveMedicine(d Draft, lineID string) Draft {
	out := d.clone()
	kept := out.Medicines[:0]
	for _, line := range out.Medicines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	out.Medicines = kept
	return out
}

// Finalize validates the draft and produces a bill with freshly computed
// totals. A draft without an id is given a new one.
func (c *Composer) Finalize(d Draft) (domain.Bill, error) {
	bill := domain.Bill{
		ID:           d.ID,
		CustomerName: strings.TrimSpace(d.CustomerName),
		Date:         strings.TrimSpace(d.Date),
		Charges:      domain.CloneCharges(d.Charges),
		Medicines:    domain.CloneMedicines(d.Medicines),
		Discount:     d.Discount,
	}

	if err := bill.Validate().Err(); err != nil {
		c.metrics.RecordValidationFailure(metrics.EntityDraft)
		return domain.Bill{}, err
	}

	if bill.ID == "" {
		bill.ID = c.genID.NewID()
	}
	bill.Recompute()
	return bill, nil
}
