package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/pharmabill/internal/bill/composer"
	billdomain "github.com/smallbiznis/pharmabill/internal/bill/domain"
	"github.com/smallbiznis/pharmabill/internal/money"
	"github.com/smallbiznis/pharmabill/internal/providers/pdf"
	"github.com/smallbiznis/pharmabill/internal/validation"
	"go.uber.org/zap"
)

type billChargeRequest struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type billMedicineRequest struct {
	ID         string `json:"id"`
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// billRequest is the full content of a bill being written. Lines carrying
// the id of a line already on the bill keep their stored snapshot; lines
// without one are priced anew.
type billRequest struct {
	CustomerName string                `json:"customer_name"`
	Date         *string               `json:"date"`
	Discount     float64               `json:"discount"`
	Charges      []billChargeRequest   `json:"charges"`
	Medicines    []billMedicineRequest `json:"medicines"`
}

type chargeResponse struct {
	billdomain.Charge
	AmountDisplay string `json:"amount_display"`
}

type billMedicineResponse struct {
	billdomain.BillMedicine
	UnitPriceDisplay string `json:"unit_price_display"`
	TotalDisplay     string `json:"total_display"`
}

type billResponse struct {
	ID              string                 `json:"id,omitempty"`
	CustomerName    string                 `json:"customer_name"`
	Date            string                 `json:"date"`
	Charges         []chargeResponse       `json:"charges"`
	Medicines       []billMedicineResponse `json:"medicines"`
	Subtotal        float64                `json:"subtotal"`
	Discount        float64                `json:"discount"`
	Total           float64                `json:"total"`
	SubtotalDisplay string                 `json:"subtotal_display"`
	DiscountDisplay string                 `json:"discount_display"`
	TotalDisplay    string                 `json:"total_display"`
}

func (s *Server) newBillResponse(b billdomain.Bill) billResponse {
	symbol := s.currencySymbol()
	resp := billResponse{
		ID:              b.ID,
		CustomerName:    b.CustomerName,
		Date:            b.Date,
		Charges:         make([]chargeResponse, 0, len(b.Charges)),
		Medicines:       make([]billMedicineResponse, 0, len(b.Medicines)),
		Subtotal:        b.Subtotal,
		Discount:        b.Discount,
		Total:           b.Total,
		SubtotalDisplay: money.Format(symbol, b.Subtotal),
		DiscountDisplay: money.Format(symbol, b.Discount),
		TotalDisplay:    money.Format(symbol, b.Total),
	}
	for _, charge := range b.Charges {
		resp.Charges = append(resp.Charges, chargeResponse{
			Charge:        charge,
			AmountDisplay: money.Format(symbol, charge.Amount),
		})
	}
	for _, line := range b.Medicines {
		resp.Medicines = append(resp.Medicines, billMedicineResponse{
			BillMedicine:     line,
			UnitPriceDisplay: money.Format(symbol, line.UnitPrice),
			TotalDisplay:     money.Format(symbol, line.Total),
		})
	}
	return resp
}

func (s *Server) newDraftResponse(d composer.Draft) billResponse {
	return s.newBillResponse(billdomain.Bill{
		ID:           d.ID,
		CustomerName: d.CustomerName,
		Date:         d.Date,
		Charges:      d.Charges,
		Medicines:    d.Medicines,
		Subtotal:     d.Subtotal(),
		Discount:     d.Discount,
		Total:        d.Total(),
	})
}

func (s *Server) ListBills(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := parsePage(query.Page)
	if err != nil {
		AbortWithError(c, newValidationError("page", "invalid page"))
		return
	}

	resp, err := s.billSvc.List(c.Request.Context(), billdomain.ListRequest{
		Query: strings.TrimSpace(query.Query),
		Page:  page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]billResponse, 0, len(resp.Items))
	for _, b := range resp.Items {
		items = append(items, s.newBillResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"page_info": gin.H{
			"total":       resp.Total,
			"page":        resp.Page,
			"page_size":   resp.PageSize,
			"total_pages": resp.TotalPages,
		},
	})
}

func (s *Server) GetBill(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.newBillResponse(*resp)})
}

func (s *Server) GetBillPDF(c *gin.Context) {
	if !s.cfg.PDFEnabled {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	bill, err := s.billSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc := pdf.NewBillDocument(*bill, s.letterhead())
	reader, err := s.pdf.RenderBill(c.Request.Context(), doc)
	if err != nil {
		s.log.Error("render bill pdf", zap.String("bill_id", bill.ID), zap.Error(err))
		AbortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"bill-%s.pdf\"", bill.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// PreviewBill prices a bill without saving it. Line errors are reported but
// the bill level rules are not applied.
func (s *Server) PreviewBill(c *gin.Context) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	draft, errs, err := s.composeDraft(c.Request.Context(), s.composer.NewDraft(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := errs.Err(); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.newDraftResponse(draft)})
}

func (s *Server) CreateBill(c *gin.Context) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	bill, err := s.finalizeRequest(ctx, s.composer.NewDraft(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billSvc.Create(ctx, bill)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": s.newBillResponse(*resp)})
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req billRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Param("id"))
	existing, err := s.billSvc.Get(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	bill, err := s.finalizeRequest(ctx, composer.OpenDraft(*existing), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billSvc.Update(ctx, id, bill)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.newBillResponse(*resp)})
}

func (s *Server) DeleteBill(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.billSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// finalizeRequest applies req to base and finalizes the result. Line errors
// and bill errors are returned together.
func (s *Server) finalizeRequest(ctx context.Context, base composer.Draft, req billRequest) (billdomain.Bill, error) {
	draft, errs, err := s.composeDraft(ctx, base, req)
	if err != nil {
		return billdomain.Bill{}, err
	}

	bill, err := s.composer.Finalize(draft)
	if err != nil {
		billErrs, ok := validation.As(err)
		if !ok {
			return billdomain.Bill{}, err
		}
		errs.Merge("", billErrs)
	}
	if err := errs.Err(); err != nil {
		return billdomain.Bill{}, err
	}
	return bill, nil
}

// composeDraft replays req onto base through the composer. Existing lines
// not named by req are removed and unnamed lines are added, so every new
// line is priced from the catalog. A named line keeps its snapshot; a field
// sent with a different value is rejected, while zero or blank fields are
// ignored. A non-nil error is a lookup failure; rejected lines are
// collected in the returned Errors.
func (s *Server) composeDraft(ctx context.Context, base composer.Draft, req billRequest) (composer.Draft, validation.Errors, error) {
	draft := base
	draft.CustomerName = req.CustomerName
	draft.Discount = req.Discount
	if req.Date != nil {
		draft.Date = strings.TrimSpace(*req.Date)
	}

	keepCharges := map[string]bool{}
	for _, charge := range req.Charges {
		if id := strings.TrimSpace(charge.ID); id != "" {
			keepCharges[id] = true
		}
	}
	for _, charge := range base.Charges {
		if !keepCharges[charge.ID] {
			draft = composer.RemoveCharge(draft, charge.ID)
		}
	}

	keepMedicines := map[string]bool{}
	for _, line := range req.Medicines {
		if id := strings.TrimSpace(line.ID); id != "" {
			keepMedicines[id] = true
		}
	}
	for _, line := range base.Medicines {
		if !keepMedicines[line.ID] {
			draft = composer.RemoveMedicine(draft, line.ID)
		}
	}

	errs := validation.Errors{}
	for i, charge := range req.Charges {
		if kept, ok := findCharge(base, charge.ID); ok {
			prefix := fmt.Sprintf("charges[%d].", i)
			if validation.NonBlank(charge.Description) && strings.TrimSpace(charge.Description) != kept.Description {
				errs.Add(prefix+"description", "A billed charge cannot be edited")
			}
			if charge.Amount != 0 && charge.Amount != kept.Amount {
				errs.Add(prefix+"amount", "A billed charge cannot be edited")
			}
			continue
		}
		next, err := s.composer.AddCharge(draft, charge.Description, charge.Amount)
		if err != nil {
			lineErrs, ok := validation.As(err)
			if !ok {
				return base, nil, err
			}
			errs.Merge(fmt.Sprintf("charges[%d].", i), lineErrs)
			continue
		}
		draft = next
	}

	for i, line := range req.Medicines {
		if kept, ok := findMedicine(base, line.ID); ok {
			prefix := fmt.Sprintf("medicines[%d].", i)
			if validation.NonBlank(line.MedicineID) && strings.TrimSpace(line.MedicineID) != kept.MedicineID {
				errs.Add(prefix+"medicineId", "A billed medicine cannot be edited")
			}
			if line.Quantity != 0 && line.Quantity != kept.Quantity {
				errs.Add(prefix+"quantity", "A billed medicine cannot be edited")
			}
			continue
		}
		next, err := s.composer.AddMedicine(ctx, draft, line.MedicineID, line.Quantity)
		if err != nil {
			lineErrs, ok := validation.As(err)
			if !ok {
				return base, nil, err
			}
			errs.Merge(fmt.Sprintf("medicines[%d].", i), lineErrs)
			continue
		}
		draft = next
	}

	return draft, errs, nil
}

func findCharge(d composer.Draft, id string) (billdomain.Charge, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return billdomain.Charge{}, false
	}
	for _, charge := range d.Charges {
		if charge.ID == id {
			return charge, true
		}
	}
	return billdomain.Charge{}, false
}

func findMedicine(d composer.Draft, id string) (billdomain.BillMedicine, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return billdomain.BillMedicine{}, false
	}
	for _, line := range d.Medicines {
		if line.ID == id {
			return line, true
		}
	}
	return billdomain.BillMedicine{}, false
}
