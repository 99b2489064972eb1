package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
)

// @Summary      List Rooms
// @Description  List all rooms
// @Tags         rooms
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/rooms [get]
func (s *Server) ListRooms(c *gin.Context) {
	resp, err := s.roomSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Create Room
// @Description  Create a new room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body roomdomain.CreateRequest true "Create Room Request"
// @Success      201  {object}  map[string]any
// @Router       /v1/rooms [post]
func (s *Server) CreateRoom(c *gin.Context) {
	var req roomdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.roomSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

// @Summary      Get Room
// @Description  Get room by ID with billing records and occupants
// @Tags         rooms
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  map[string]any
// @Router       /v1/rooms/{id} [get]
func (s *Server) GetRoomByID(c *gin.Context) {
	resp, err := s.roomSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Room
// @Description  Update room details; the carried balance is not writable here
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Room ID"
// @Param        request  body  roomdomain.UpdateRequest  true  "Update Room Request"
// @Success      200  {object}  map[string]any
// @Router       /v1/rooms/{id} [patch]
func (s *Server) UpdateRoom(c *gin.Context) {
	var req roomdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.roomSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Room
// @Description  Delete a room and its billing history; rejected while occupied
// @Tags         rooms
// @Param        id   path      string  true  "Room ID"
// @Success      204
// @Router       /v1/rooms/{id} [delete]
func (s *Server) DeleteRoom(c *gin.Context) {
	if err := s.roomSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	respondDeleted(c)
}

// @Summary      Adjust Room Balance
// @Description  Apply a signed delta to the carried balance
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "Room ID"
// @Param        request  body  roomdomain.AdjustBalanceRequest  true  "Adjustment"
// @Success      200  {object}  map[string]any
// @Router       /v1/rooms/{id}/balance-adjustments [post]
func (s *Server) AdjustRoomBalance(c *gin.Context) {
	var req roomdomain.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.roomSvc.AdjustBalance(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}
