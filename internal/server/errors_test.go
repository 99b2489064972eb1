package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingdomain "github.com/nhatrolabs/nhatro/internal/billing/domain"
	roomdomain "github.com/nhatrolabs/nhatro/internal/room/domain"
)

type stubRoomSvc struct {
	err error
}

func (s stubRoomSvc) Create(context.Context, roomdomain.CreateRequest) (*roomdomain.Response, error) {
	return nil, s.err
}
func (s stubRoomSvc) Get(context.Context, string) (*roomdomain.Response, error) {
	return nil, s.err
}
func (s stubRoomSvc) List(context.Context) ([]roomdomain.Response, error) {
	return nil, s.err
}
func (s stubRoomSvc) Update(context.Context, roomdomain.UpdateRequest) (*roomdomain.Response, error) {
	return nil, s.err
}
func (s stubRoomSvc) AdjustBalance(context.Context, roomdomain.AdjustBalanceRequest) (*roomdomain.Response, error) {
	return nil, s.err
}
func (s stubRoomSvc) Delete(context.Context, string) error {
	return s.err
}

type stubBillingSvc struct {
	err error
}

func (s stubBillingSvc) Create(context.Context, billingdomain.CreateRequest) (*billingdomain.Response, error) {
	return nil, s.err
}
func (s stubBillingSvc) Get(context.Context, string) (*billingdomain.Response, error) {
	return nil, s.err
}
func (s stubBillingSvc) List(context.Context) ([]billingdomain.Response, error) {
	return nil, s.err
}
func (s stubBillingSvc) Update(context.Context, billingdomain.UpdateRequest) (*billingdomain.Response, error) {
	return nil, s.err
}
func (s stubBillingSvc) Delete(context.Context, string) error {
	return s.err
}
func (s stubBillingSvc) Recompute(context.Context, string) (*billingdomain.Response, error) {
	return nil, s.err
}
func (s stubBillingSvc) AppendPayment(context.Context, string, billingdomain.EntryRequest) (*billingdomain.Response, error) {
	return nil, s.err
}
func (s stubBillingSvc) ReplaceLedger(context.Context, string, []billingdomain.EntryRequest) (*billingdomain.Response, error) {
	return nil, s.err
}
func (s stubBillingSvc) Settle(context.Context, string) (*billingdomain.SettleResponse, error) {
	return nil, s.err
}

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(method, path, nil)
	resp := httptest.NewRecorder()
	srv.Router().ServeHTTP(resp, req)
	return resp
}

func TestErrorTaxonomyMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"malformed id is a client error", roomdomain.ErrInvalidID, http.StatusBadRequest},
		{"missing room", roomdomain.ErrNotFound, http.StatusNotFound},
		{"occupied room delete", roomdomain.ErrOccupied, http.StatusConflict},
		{"lost update", roomdomain.ErrVersionConflict, http.StatusConflict},
		{"unclassified persistence failure", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := &Server{
				log:     zap.NewNop(),
				roomSvc: stubRoomSvc{err: tc.err},
			}
			resp := doRequest(t, srv, http.MethodGet, "/v1/rooms/123")
			require.Equal(t, tc.status, resp.Code)
		})
	}
}

func TestOrphanedRecordSurfacesAsConflict(t *testing.T) {
	srv := &Server{
		log:        zap.NewNop(),
		billingSvc: stubBillingSvc{err: billingdomain.ErrRoomMissing},
	}
	resp := doRequest(t, srv, http.MethodPost, "/v1/billing-records/123/settle")
	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestInternalErrorsDoNotLeakDetails(t *testing.T) {
	srv := &Server{
		log:     zap.NewNop(),
		roomSvc: stubRoomSvc{err: context.DeadlineExceeded},
	}
	resp := doRequest(t, srv, http.MethodGet, "/v1/rooms/123")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.NotContains(t, resp.Body.String(), "deadline")
}
