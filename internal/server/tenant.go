package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	tenantdomain "github.com/nhatrolabs/nhatro/internal/tenant/domain"
)

// @Summary      List Tenants
// @Tags         tenants
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/tenants [get]
func (s *Server) ListTenants(c *gin.Context) {
	resp, err := s.tenantSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Create Tenant
// @Description  Register a tenant into an existing room
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body tenantdomain.CreateRequest true "Create Tenant Request"
// @Success      201  {object}  map[string]any
// @Router       /v1/tenants [post]
func (s *Server) CreateTenant(c *gin.Context) {
	var req tenantdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

// @Summary      Get Tenant
// @Tags         tenants
// @Produce      json
// @Param        id   path      string  true  "Tenant ID"
// @Success      200  {object}  map[string]any
// @Router       /v1/tenants/{id} [get]
func (s *Server) GetTenantByID(c *gin.Context) {
	resp, err := s.tenantSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Tenant
// @Description  Update profile fields; a changed room id moves the tenant atomically
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Tenant ID"
// @Param        request  body  tenantdomain.UpdateRequest  true  "Update Tenant Request"
// @Success      200  {object}  map[string]any
// @Router       /v1/tenants/{id} [patch]
func (s *Server) UpdateTenant(c *gin.Context) {
	var req tenantdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tenantSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Transfer Tenant
// @Description  Move a tenant to another room in a single transaction
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Tenant ID"
// @Param        request  body  tenantdomain.TransferRequest  true  "Transfer Request"
// @Success      200  {object}  map[string]any
// @Router       /v1/tenants/{id}/transfer [post]
func (s *Server) TransferTenant(c *gin.Context) {
	var req tenantdomain.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.tenantSvc.Transfer(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Tenant
// @Tags         tenants
// @Param        id   path      string  true  "Tenant ID"
// @Success      204
// @Router       /v1/tenants/{id} [delete]
func (s *Server) DeleteTenant(c *gin.Context) {
	if err := s.tenantSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	respondDeleted(c)
}
