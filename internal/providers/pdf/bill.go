package pdf

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	billdomain "github.com/smallbiznis/pharmabill/internal/bill/domain"
	"github.com/smallbiznis/pharmabill/internal/config"
	"github.com/smallbiznis/pharmabill/internal/money"
)

// BillDocument is a bill with every amount already formatted for print.
type BillDocument struct {
	ClinicName    string
	ClinicAddress string
	ClinicPhone   string
	Footer        string

	BillID       string
	CustomerName string
	Date         string

	Charges   []ChargeRow
	Medicines []MedicineRow

	Subtotal string
	Discount string
	Total    string
}

type ChargeRow struct {
	Description string
	Amount      string
}

type MedicineRow struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

// NewBillDocument formats bill under the given letterhead.
func NewBillDocument(bill billdomain.Bill, letterhead config.BillingConfig) BillDocument {
	symbol := letterhead.CurrencySymbol

	doc := BillDocument{
		ClinicName:    letterhead.ClinicName,
		ClinicAddress: letterhead.Address,
		ClinicPhone:   letterhead.Phone,
		Footer:        letterhead.Footer,
		BillID:        bill.ID,
		CustomerName:  bill.CustomerName,
		Date:          bill.Date,
		Charges:       make([]ChargeRow, 0, len(bill.Charges)),
		Medicines:     make([]MedicineRow, 0, len(bill.Medicines)),
		Subtotal:      money.Format(symbol, bill.Subtotal),
		Discount:      money.Format(symbol, bill.Discount),
		Total:         money.Format(symbol, bill.Total),
	}
	for _, c := range bill.Charges {
		doc.Charges = append(doc.Charges, ChargeRow{
			Description: c.Description,
			Amount:      money.Format(symbol, c.Amount),
		})
	}
	for _, m := range bill.Medicines {
		doc.Medicines = append(doc.Medicines, MedicineRow{
			Name:      m.MedicineName,
			Quantity:  m.Quantity,
			UnitPrice: money.Format(symbol, m.UnitPrice),
			Total:     money.Format(symbol, m.Total),
		})
	}
	return doc
}

func (p *PDFProvider) RenderBill(ctx context.Context, doc BillDocument) (io.Reader, error) {
	cfg := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, doc.ClinicName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Bill", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(doc.ClinicAddress, props.Text{Top: 0, Size: 9}),
			text.New(doc.ClinicPhone, props.Text{Top: 5, Size: 9}),
		),
		col.New(6).Add(
			text.New("Bill #"+doc.BillID, props.Text{Top: 0, Align: align.Right}),
			text.New("Date: "+doc.Date, props.Text{Top: 5, Align: align.Right}),
		),
	)

	m.AddRow(15,
		col.New(12).Add(
			text.New("Customer", props.Text{Style: fontstyle.Bold}),
			text.New(doc.CustomerName, props.Text{Top: 5}),
		),
	)

	if len(doc.Charges) > 0 {
		m.AddRow(10,
			text.NewCol(10, "Charges", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, c := range doc.Charges {
			m.AddRow(8,
				text.NewCol(10, c.Description, props.Text{Size: 9}),
				text.NewCol(2, c.Amount, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	if len(doc.Medicines) > 0 {
		m.AddRow(10,
			text.NewCol(6, "Medicine", props.Text{Style: fontstyle.Bold, Size: 9, Top: 3}),
			text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Top: 3, Align: align.Right}),
			text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Top: 3, Align: align.Right}),
			text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Top: 3, Align: align.Right}),
		)
		for _, med := range doc.Medicines {
			m.AddRow(8,
				text.NewCol(6, med.Name, props.Text{Size: 9}),
				text.NewCol(2, strconv.Itoa(med.Quantity), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, med.UnitPrice, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, med.Total, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9, Top: 3}),
		text.NewCol(2, doc.Subtotal, props.Text{Size: 9, Top: 3, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Discount", props.Text{Size: 9}),
		text.NewCol(2, doc.Discount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, doc.Total, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	if doc.Footer != "" {
		m.AddRow(15,
			text.NewCol(12, doc.Footer, props.Text{Size: 9, Top: 5, Align: align.Center}),
		)
	}

	generated, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(generated.GetBytes()), nil
}
