package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pawmatch/pawmatch-backend/api/middleware"
	"github.com/pawmatch/pawmatch-backend/internal/bookings"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
)

type testBookingsService struct {
	createFn          func(ctx context.Context, ownerID uuid.UUID, req bookings.CreateBookingRequest) (*bookings.BookingDTO, error)
	updateStatusFn    func(ctx context.Context, userID, bookingID uuid.UUID, req bookings.UpdateStatusRequest) (*bookings.BookingDTO, error)
	listForOwnerFn    func(ctx context.Context, ownerID uuid.UUID, params bookings.ListParams) (*bookings.ListResult, error)
	listForSitterFn   func(ctx context.Context, sitterUserID uuid.UUID, params bookings.ListParams) (*bookings.ListResult, error)
	addServiceUpdFn   func(ctx context.Context, userID, bookingID uuid.UUID, req bookings.AddServiceUpdateRequest) (*bookings.ServiceUpdateDTO, error)
	listServiceUpdsFn func(ctx context.Context, userID, bookingID uuid.UUID) ([]bookings.ServiceUpdateDTO, error)
}

func (s *testBookingsService) Create(ctx context.Context, ownerID uuid.UUID, req bookings.CreateBookingRequest) (*bookings.BookingDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, ownerID, req)
	}
	return &bookings.BookingDTO{}, nil
}

func (s *testBookingsService) Get(ctx context.Context, userID, bookingID uuid.UUID) (*bookings.BookingDTO, error) {
	return &bookings.BookingDTO{ID: bookingID}, nil
}

func (s *testBookingsService) ListForOwner(ctx context.Context, ownerID uuid.UUID, params bookings.ListParams) (*bookings.ListResult, error) {
	if s.listForOwnerFn != nil {
		return s.listForOwnerFn(ctx, ownerID, params)
	}
	return &bookings.ListResult{}, nil
}

func (s *testBookingsService) ListForSitter(ctx context.Context, sitterUserID uuid.UUID, params bookings.ListParams) (*bookings.ListResult, error) {
	if s.listForSitterFn != nil {
		return s.listForSitterFn(ctx, sitterUserID, params)
	}
	return &bookings.ListResult{}, nil
}

func (s *testBookingsService) UpdateStatus(ctx context.Context, userID, bookingID uuid.UUID, req bookings.UpdateStatusRequest) (*bookings.BookingDTO, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, userID, bookingID, req)
	}
	return &bookings.BookingDTO{}, nil
}

func (s *testBookingsService) AddServiceUpdate(ctx context.Context, userID, bookingID uuid.UUID, req bookings.AddServiceUpdateRequest) (*bookings.ServiceUpdateDTO, error) {
	if s.addServiceUpdFn != nil {
		return s.addServiceUpdFn(ctx, userID, bookingID, req)
	}
	return &bookings.ServiceUpdateDTO{}, nil
}

func (s *testBookingsService) ListServiceUpdates(ctx context.Context, userID, bookingID uuid.UUID) ([]bookings.ServiceUpdateDTO, error) {
	if s.listServiceUpdsFn != nil {
		return s.listServiceUpdsFn(ctx, userID, bookingID)
	}
	return nil, nil
}

func TestCreateBookingForwardsBody(t *testing.T) {
	ownerID := uuid.New()
	sitterID := uuid.New()
	petID := uuid.New()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	svc := &testBookingsService{
		createFn: func(ctx context.Context, oid uuid.UUID, req bookings.CreateBookingRequest) (*bookings.BookingDTO, error) {
			if oid != ownerID {
				t.Fatalf("unexpected owner %s", oid)
			}
			if req.SitterID != sitterID || req.PetID != petID {
				t.Fatalf("body not forwarded: %+v", req)
			}
			if !req.StartTime.Equal(start) || !req.EndTime.Equal(end) {
				t.Fatalf("times not forwarded: %+v", req)
			}
			return &bookings.BookingDTO{ID: uuid.New(), OwnerID: oid, SitterID: sitterID, PetID: petID}, nil
		},
	}

	payload := map[string]any{
		"sitter_id":  sitterID,
		"pet_id":     petID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(string(raw)))
	req = req.WithContext(middleware.WithUserID(req.Context(), ownerID.String()))
	resp := httptest.NewRecorder()
	CreateBooking(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d body %s", resp.Code, resp.Body.String())
	}
}

func TestUpdateBookingStatusMapsConflict(t *testing.T) {
	bookingID := uuid.New()
	svc := &testBookingsService{
		updateStatusFn: func(ctx context.Context, uid, bid uuid.UUID, req bookings.UpdateStatusRequest) (*bookings.BookingDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot move booking from completed to confirmed")
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID.String()+"/status", strings.NewReader(`{"status":"confirmed"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "bookingId", bookingID.String())
	resp := httptest.NewRecorder()
	UpdateBookingStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestListOwnerBookingsForwardsQuery(t *testing.T) {
	ownerID := uuid.New()
	var captured bookings.ListParams
	svc := &testBookingsService{
		listForOwnerFn: func(ctx context.Context, oid uuid.UUID, params bookings.ListParams) (*bookings.ListResult, error) {
			captured = params
			return &bookings.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=pending&limit=10&cursor=xyz", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), ownerID.String()))
	resp := httptest.NewRecorder()
	ListOwnerBookings(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if captured.Status != "pending" || captured.Limit != 10 || captured.Cursor != "xyz" {
		t.Fatalf("query not forwarded: %+v", captured)
	}
}

func TestAddBookingUpdateRequiresMessage(t *testing.T) {
	bookingID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+bookingID.String()+"/updates", strings.NewReader(`{}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = addRouteParam(req, "bookingId", bookingID.String())
	resp := httptest.NewRecorder()
	AddBookingUpdate(&testBookingsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
