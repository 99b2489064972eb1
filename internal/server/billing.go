package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/nhatrolabs/nhatro/internal/billing/domain"
)

// @Summary      List Billing Records
// @Tags         billing-records
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/billing-records [get]
func (s *Server) ListBillingRecords(c *gin.Context) {
	resp, err := s.billingSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Create Billing Record
// @Description  Open a billing record for a room, optionally with an initial ledger
// @Tags         billing-records
// @Accept       json
// @Produce      json
// @Param        request body billingdomain.CreateRequest true "Create Billing Record Request"
// @Success      201  {object}  map[string]any
// @Router       /v1/billing-records [post]
func (s *Server) CreateBillingRecord(c *gin.Context) {
	var req billingdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

// @Summary      Get Billing Record
// @Tags         billing-records
// @Produce      json
// @Param        id   path      string  true  "Billing Record ID"
// @Success      200  {object}  map[string]any
// @Router       /v1/billing-records/{id} [get]
func (s *Server) GetBillingRecordByID(c *gin.Context) {
	resp, err := s.billingSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Billing Record
// @Description  Re-submit usage readings and the full ledger; the charge is recomputed and the stored ledger replaced
// @Tags         billing-records
// @Accept       json
// @Produce      json
// @Param        id       path  string                       true  "Billing Record ID"
// @Param        request  body  billingdomain.UpdateRequest  true  "Update Billing Record Request"
// @Success      200  {object}  map[string]any
// @Router       /v1/billing-records/{id} [patch]
func (s *Server) UpdateBillingRecord(c *gin.Context) {
	var req billingdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.billingSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Billing Record
// @Tags         billing-records
// @Param        id   path      string  true  "Billing Record ID"
// @Success      204
// @Router       /v1/billing-records/{id} [delete]
func (s *Server) DeleteBillingRecord(c *gin.Context) {
	if err := s.billingSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	respondDeleted(c)
}

// @Summary      Append Payment
// @Description  Append one entry to the record's payment ledger; never settles
// @Tags         billing-records
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Billing Record ID"
// @Param        request  body  billingdomain.EntryRequest  true  "Payment Entry"
// @Success      200  {object}  map[string]any
// @Router       /v1/billing-records/{id}/payments [post]
func (s *Server) AppendPayment(c *gin.Context) {
	var req billingdomain.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.AppendPayment(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Replace Ledger
// @Description  Destructive full resend of the payment ledger; omitted entries are discarded
// @Tags         billing-records
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Billing Record ID"
// @Param        request  body  []billingdomain.EntryRequest  true  "Full ledger sequence"
// @Success      200  {object}  map[string]any
// @Router       /v1/billing-records/{id}/ledger [put]
func (s *Server) ReplaceLedger(c *gin.Context) {
	var req []billingdomain.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.ReplaceLedger(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Recompute Charge
// @Description  Re-derive the charge from current usage and live room prices
// @Tags         billing-records
// @Produce      json
// @Param        id   path      string  true  "Billing Record ID"
// @Success      200  {object}  map[string]any
// @Router       /v1/billing-records/{id}/recompute [post]
func (s *Server) RecomputeBillingRecord(c *gin.Context) {
	resp, err := s.billingSvc.Recompute(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Settle Period
// @Description  Sum the ledger and roll the shortfall into the room's carried balance; idempotent
// @Tags         billing-records
// @Produce      json
// @Param        id   path      string  true  "Billing Record ID"
// @Success      200  {object}  map[string]any
// @Router       /v1/billing-records/{id}/settle [post]
func (s *Server) SettleBillingRecord(c *gin.Context) {
	resp, err := s.billingSvc.Settle(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
