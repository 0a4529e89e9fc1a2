package request_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LRM-SchedulingEngine/internal/domain"
	"github.com/m04kA/LRM-SchedulingEngine/internal/engine/availability"
	requestBooking "github.com/m04kA/LRM-SchedulingEngine/internal/usecase/request_booking"
)

type fakeUseCase struct {
	gotReq *requestBooking.Request
	resp   *requestBooking.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *requestBooking.Request) (*requestBooking.Response, error) {
	f.gotReq = req
	return f.resp, f.err
}

type testLogger struct{}

func (testLogger) Info(format string, v ...interface{})  {}
func (testLogger) Warn(format string, v ...interface{})  {}
func (testLogger) Error(format string, v ...interface{}) {}

func doRequest(t *testing.T, uc RequestBookingUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, testLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{
		resp: &requestBooking.Response{
			Bookings: []*domain.Booking{{
				ID:          1,
				EquipmentID: 7,
				RequesterID: 42,
				Interval:    domain.NewTimeInterval(start, start.Add(2*time.Hour)),
				Purpose:     "cell imaging",
				Status:      domain.StatusPending,
			}},
		},
	}

	rec := doRequest(t, uc, `{
		"equipmentId": 7,
		"startTime": "2025-03-10T09:00:00Z",
		"endTime": "2025-03-10T11:00:00Z",
		"purpose": "cell imaging"
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp RequestBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "pending", resp.Bookings[0].Status)
	assert.Nil(t, resp.GroupID)
}

func TestHandle_ConflictIs409WithDetails(t *testing.T) {
	occ := domain.NewTimeInterval(
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
	)
	uc := &fakeUseCase{
		err: &requestBooking.ConflictError{
			Conflicts: []requestBooking.OccurrenceConflict{{
				Occurrence: occ,
				Held:       []availability.Hold{{BookingID: 99, Interval: occ}},
			}},
		},
	}

	rec := doRequest(t, uc, `{
		"equipmentId": 7,
		"startTime": "2025-03-10T09:00:00Z",
		"endTime": "2025-03-10T11:00:00Z",
		"purpose": "cell imaging"
	}`)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ConflictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, []int64{99}, resp.Conflicts[0].ConflictsWith)
}

func TestHandle_BadBody(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{"equipmentId": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_BadTimestamps(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{
		"equipmentId": 7,
		"startTime": "2025-03-10",
		"endTime": "2025-03-10T11:00:00Z",
		"purpose": "cell imaging"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_RecurrenceParsed(t *testing.T) {
	uc := &fakeUseCase{resp: &requestBooking.Response{}}

	rec := doRequest(t, uc, `{
		"equipmentId": 7,
		"startTime": "2025-03-10T09:00:00Z",
		"endTime": "2025-03-10T11:00:00Z",
		"purpose": "cell imaging",
		"recurrence": {"frequency": "weekly", "interval": 1, "weekdays": [1, 3], "until": "2025-04-05"}
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.gotReq.Recurrence)
	assert.Equal(t, domain.FrequencyWeekly, uc.gotReq.Recurrence.Frequency)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, uc.gotReq.Recurrence.Weekdays)
}
