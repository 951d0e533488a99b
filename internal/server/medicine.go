package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/pharmabill/internal/config"
	medicinedomain "github.com/smallbiznis/pharmabill/internal/medicine/domain"
	medicineservice "github.com/smallbiznis/pharmabill/internal/medicine/service"
	"github.com/smallbiznis/pharmabill/internal/money"
)

type medicineRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	ExpiryDate  string  `json:"expiry_date"`
}

func (r medicineRequest) input() medicinedomain.Input {
	return medicinedomain.Input{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		ExpiryDate:  r.ExpiryDate,
	}
}

type medicineResponse struct {
	medicinedomain.Medicine
	PriceDisplay string `json:"price_display"`
}

func (s *Server) newMedicineResponse(m medicinedomain.Medicine) medicineResponse {
	return medicineResponse{
		Medicine:     m,
		PriceDisplay: money.Format(s.currencySymbol(), m.Price),
	}
}

func (s *Server) ListMedicines(c *gin.Context) {
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

	resp, err := s.medicineSvc.List(c.Request.Context(), medicinedomain.ListRequest{
		Query: strings.TrimSpace(query.Query),
		Page:  page,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]medicineResponse, 0, len(resp.Items))
	for _, m := range resp.Items {
		items = append(items, s.newMedicineResponse(m))
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

// ListCategories returns the category enumeration and the prefill values of
// a new medicine form.
func (s *Server) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"categories":          medicinedomain.Categories(),
		"default_expiry_date": medicineservice.DefaultExpiryDate(s.clock),
	}})
}

func (s *Server) GetMedicine(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.medicineSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.newMedicineResponse(*resp)})
}

func (s *Server) CreateMedicine(c *gin.Context) {
	var req medicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.medicineSvc.Create(c.Request.Context(), req.input())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": s.newMedicineResponse(*resp)})
}

func (s *Server) UpdateMedicine(c *gin.Context) {
	var req medicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.medicineSvc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.newMedicineResponse(*resp)})
}

func (s *Server) DeleteMedicine(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.medicineSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) letterhead() config.BillingConfig {
	if s.billingCfg == nil {
		return config.DefaultBillingConfig()
	}
	return s.billingCfg.Get()
}

func (s *Server) currencySymbol() string {
	return s.letterhead().CurrencySymbol
}
