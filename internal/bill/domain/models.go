// Package domain contains the bill model and the rules a bill must satisfy
// before it can be saved.
package domain

import (
	"fmt"

	"github.com/smallbiznis/pharmabill/internal/validation"
)

// Charge is an ad-hoc billable service line not drawn from inventory.
type Charge struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// BillMedicine snapshots a catalog medicine at the moment it was billed.
// MedicineID is a weak reference kept for traceability only; later catalog
// edits or deletes never touch the snapshot.
type BillMedicine struct {
	ID           string  `json:"id"`
	MedicineID   string  `json:"medicine_id"`
	MedicineName string  `json:"medicine_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Total        float64 `json:"total"`
}

// Bill owns its charge and medicine lines exclusively.
type Bill struct {
	ID           string         `json:"id"`
	CustomerName string         `json:"customer_name"`
	Date         string         `json:"date"`
	Charges      []Charge       `json:"charges"`
	Medicines    []BillMedicine `json:"medicines"`
	Subtotal     float64        `json:"subtotal"`
	Discount     float64        `json:"discount"`
	Total        float64        `json:"total"`
}

// Subtotal sums charge amounts and medicine line totals.
func Subtotal(charges []Charge, medicines []BillMedicine) float64 {
	var sum float64
	for _, c := range charges {
		sum += c.Amount
	}
	for _, m := range medicines {
		sum += m.Total
	}
	return sum
}

// Total is subtotal minus discount. It is not clamped at zero.
func Total(subtotal, discount float64) float64 {
	return subtotal - discount
}

// Recompute refreshes every line total from its snapshot, then Subtotal and
// Total from the lines.
func (b *Bill) Recompute() {
	for i := range b.Medicines {
		line := &b.Medicines[i]
		line.Total = line.UnitPrice * float64(line.Quantity)
	}
	b.Subtotal = Subtotal(b.Charges, b.Medicines)
	b.Total = Total(b.Subtotal, b.Discount)
}

// Clone deep-copies the bill so the copy shares no line storage.
func (b Bill) Clone() Bill {
	out := b
	out.Charges = CloneCharges(b.Charges)
	out.Medicines = CloneMedicines(b.Medicines)
	return out
}

func CloneCharges(in []Charge) []Charge {
	out := make([]Charge, len(in))
	copy(out, in)
	return out
}

func CloneMedicines(in []BillMedicine) []BillMedicine {
	out := make([]BillMedicine, len(in))
	copy(out, in)
	return out
}

// Validate applies the save rules and reports every failing field.
func (b Bill) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Check(validation.NonBlank(b.CustomerName), "customerName", "Customer name is required")

	switch {
	case !validation.NonBlank(b.Date):
		errs.Add("date", "Date is required")
	case !validation.IsDate(b.Date):
		errs.Add("date", "Date must be a YYYY-MM-DD date")
	}

	errs.Check(validation.NonNegative(b.Discount), "discount", "Discount cannot be negative")
	errs.Check(len(b.Charges) > 0 || len(b.Medicines) > 0, "items", "Add at least one charge or medicine")

	for i, charge := range b.Charges {
		errs.Merge(fmt.Sprintf("charges[%d].", i), charge.Validate())
	}
	for i, line := range b.Medicines {
		errs.Merge(fmt.Sprintf("medicines[%d].", i), line.Validate())
	}
	return errs
}

// Validate checks a stored charge line.
func (c Charge) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Check(validation.NonBlank(c.Description), "description", "Description is required")
	errs.Check(validation.Positive(c.Amount), "amount", "Amount must be greater than 0")
	return errs
}

// Validate checks a medicine snapshot line. Total is not checked since
// Recompute derives it.
func (m BillMedicine) Validate() validation.Errors {
	errs := validation.Errors{}
	errs.Check(validation.NonBlank(m.MedicineID), "medicineId", "Please select a medicine")
	errs.Check(m.Quantity > 0, "quantity", "Quantity must be greater than 0")
	errs.Check(validation.NonNegative(m.UnitPrice), "unitPrice", "Unit price cannot be negative")
	return errs
}
