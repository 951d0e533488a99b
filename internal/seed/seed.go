package seed

import (
	"context"
	"errors"
	"fmt"

	billdomain "github.com/smallbiznis/pharmabill/internal/bill/domain"
	"github.com/smallbiznis/pharmabill/internal/config"
	medicinedomain "github.com/smallbiznis/pharmabill/internal/medicine/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Medicines returns the sample catalog a fresh session starts with.
func Medicines() []medicinedomain.Medicine {
	return []medicinedomain.Medicine{
		{ID: "1", Name: "Paracetamol", Description: "Pain reliever and fever reducer", Price: 5.99, Stock: 100, Category: medicinedomain.CategoryPainRelief, ExpiryDate: "2025-12-31"},
		{ID: "2", Name: "Amoxicillin", Description: "Antibiotic medication", Price: 12.5, Stock: 50, Category: medicinedomain.CategoryAntibiotics, ExpiryDate: "2025-06-30"},
		{ID: "3", Name: "Loratadine", Description: "Antihistamine for allergies", Price: 8.75, Stock: 75, Category: medicinedomain.CategoryAllergy, ExpiryDate: "2026-03-15"},
		{ID: "4", Name: "Ibuprofen", Description: "NSAID for pain and inflammation", Price: 6.99, Stock: 120, Category: medicinedomain.CategoryPainRelief, ExpiryDate: "2025-09-20"},
		{ID: "5", Name: "Omeprazole", Description: "Proton pump inhibitor for acid reflux", Price: 15.25, Stock: 40, Category: medicinedomain.CategoryDigestiveHealth, ExpiryDate: "2025-11-10"},
		{ID: "6", Name: "Simvastatin", Description: "Statin medication for cholesterol", Price: 22.5, Stock: 30, Category: medicinedomain.CategoryCardiovascular, ExpiryDate: "2025-08-05"},
		{ID: "7", Name: "Metformin", Description: "Oral diabetes medication", Price: 18.99, Stock: 45, Category: medicinedomain.CategoryDiabetes, ExpiryDate: "2026-01-25"},
		{ID: "8", Name: "Lisinopril", Description: "ACE inhibitor for blood pressure", Price: 14.75, Stock: 55, Category: medicinedomain.CategoryCardiovascular, ExpiryDate: "2025-10-15"},
		{ID: "9", Name: "Albuterol", Description: "Bronchodilator for asthma", Price: 25.99, Stock: 25, Category: medicinedomain.CategoryRespiratory, ExpiryDate: "2025-07-20"},
		{ID: "10", Name: "Levothyroxine", Description: "Thyroid hormone replacement", Price: 16.5, Stock: 60, Category: medicinedomain.CategoryHormones, ExpiryDate: "2026-02-10"},
	}
}

// Bills returns the sample bills a fresh session starts with.
func Bills() []billdomain.Bill {
	return []billdomain.Bill{
		{
			ID:           "1",
			CustomerName: "John Doe",
			Date:         "2023-05-15",
			Charges: []billdomain.Charge{
				{ID: "c1", Description: "Doctor Consultation", Amount: 50.0},
				{ID: "c2", Description: "Blood Test", Amount: 25.0},
			},
			Medicines: []billdomain.BillMedicine{
				{ID: "m1", MedicineID: "1", MedicineName: "Paracetamol", Quantity: 2, UnitPrice: 5.99, Total: 11.98},
				{ID: "m2", MedicineID: "3", MedicineName: "Loratadine", Quantity: 1, UnitPrice: 8.75, Total: 8.75},
			},
			Subtotal: 95.73,
			Discount: 5.0,
			Total:    90.73,
		},
		{
			ID:           "2",
			CustomerName: "Jane Smith",
			Date:         "2023-05-16",
			Charges: []billdomain.Charge{
				{ID: "c3", Description: "Doctor Consultation", Amount: 50.0},
				{ID: "c4", Description: "X-Ray", Amount: 75.0},
			},
			Medicines: []billdomain.BillMedicine{
				{ID: "m3", MedicineID: "2", MedicineName: "Amoxicillin", Quantity: 1, UnitPrice: 12.5, Total: 12.5},
				{ID: "m4", MedicineID: "4", MedicineName: "Ibuprofen", Quantity: 1, UnitPrice: 6.99, Total: 6.99},
			},
			Subtotal: 144.49,
			Discount: 10.0,
			Total:    134.49,
		},
		{
			ID:           "3",
			CustomerName: "Robert Johnson",
			Date:         "2023-05-17",
			Charges: []billdomain.Charge{
				{ID: "c5", Description: "Doctor Consultation", Amount: 50.0},
			},
			Medicines: []billdomain.BillMedicine{
				{ID: "m5", MedicineID: "5", MedicineName: "Omeprazole", Quantity: 1, UnitPrice: 15.25, Total: 15.25},
			},
			Subtotal: 65.25,
			Discount: 0.0,
			Total:    65.25,
		},
	}
}

// Load inserts the sample records with their literal ids.
func Load(ctx context.Context, medicines medicinedomain.Repository, bills billdomain.Repository) error {
	if medicines == nil || bills == nil {
		return errors.New("seed repositories are required")
	}

	for _, m := range Medicines() {
		m := m
		if err := medicines.Insert(ctx, &m); err != nil {
			return fmt.Errorf("seed medicine %s: %w", m.ID, err)
		}
	}
	for _, b := range Bills() {
		b := b
		if err := bills.Insert(ctx, &b); err != nil {
			return fmt.Errorf("seed bill %s: %w", b.ID, err)
		}
	}
	return nil
}

type params struct {
	fx.In

	Cfg       config.Config
	Log       *zap.Logger
	Medicines medicinedomain.Repository
	Bills     billdomain.Repository
}

func run(p params) error {
	if !p.Cfg.SeedEnabled {
		p.Log.Info("seed disabled")
		return nil
	}
	if err := Load(context.Background(), p.Medicines, p.Bills); err != nil {
		return err
	}
	p.Log.Info("seeded session data",
		zap.Int("medicines", len(Medicines())),
		zap.Int("bills", len(Bills())),
	)
	return nil
}

var Module = fx.Module("seed",
	fx.Invoke(run),
)
