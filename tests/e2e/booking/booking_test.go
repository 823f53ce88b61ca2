//go:build e2e

package booking_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"
	"time"

	"ticket-booking/internal/handler/dto/request"
	"ticket-booking/internal/handler/dto/response"
	"ticket-booking/tests/common/authtest"
	"ticket-booking/tests/common/dbtest"
	"ticket-booking/tests/common/httptest"
	"ticket-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	availabilityURL = "/api/bookings/availability"
	webhookURL      = "/api/payments/cashfree/webhook"
	eventSeatsURL   = "/api/events/%s/seats"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func (s *BookingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

type venue struct {
	userID  uuid.UUID
	eventID uuid.UUID
	seats   map[string]uuid.UUID
	token   string
}

func (s *BookingSuite) seedVenue(t *testing.T, email string) venue {
	userID := dbtest.CreateTestUser(t, s.DB, email)
	eventID := dbtest.CreateTestEvent(t, s.DB, "Concert", time.Now().Add(24*time.Hour))
	seats := dbtest.CreateTestSeats(t, s.DB, eventID, dbtest.DefaultSeatSpecs())
	token := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, userID)
	return venue{userID: userID, eventID: eventID, seats: seats, token: token}
}

func reserveBody(v venue, seatNumbers ...string) request.CreateBookingRequest {
	req := request.CreateBookingRequest{EventID: v.eventID}
	for _, n := range seatNumbers {
		price := int64(2500)
		seatType := "REGULAR"
		if n[0] == 'V' {
			price = 8000
			seatType = "VIP"
		}
		req.Seats = append(req.Seats, request.SeatSelectionRequest{
			SeatID:     v.seats[n],
			PriceCents: price,
			SeatType:   seatType,
		})
		req.AmountCents += price
	}
	return req
}

// signs a webhook body the way Cashfree does
func (s *BookingSuite) signWebhook(body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(s.Config.Webhook.Secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (s *BookingSuite) deliverWebhook(t *testing.T, body []byte, signature string) *nethttptest.ResponseRecorder {
	headers := map[string]string{
		"x-webhook-signature": signature,
		"x-webhook-timestamp": webhookTimestamp,
	}
	return httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, body, headers)
}

const webhookTimestamp = "1756500000"

// =============================================================================
// TestReserveSeats - Reservation API tests
// =============================================================================

func (s *BookingSuite) TestReserveSeats() {
	s.Run("Normal case: seats reserved and soft locked", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A1", "V1"), v.token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &created)
		require.NoError(t, err)
		require.Equal(t, "PENDING", created.Status)
		require.Equal(t, int64(10500), created.AmountCents)
		require.Len(t, created.Seats, 2)

		// ロック期限がDBに書かれていること
		var lockedUntil time.Time
		err = s.DB.QueryRow(context.Background(),
			"SELECT locked_until FROM seats WHERE id = $1", v.seats["A1"]).Scan(&lockedUntil)
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(3*time.Minute), lockedUntil, 30*time.Second)

		var claims int
		err = s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM booked_seats WHERE booking_id = $1", created.ID).Scan(&claims)
		require.NoError(t, err)
		require.Equal(t, 2, claims)
	})

	s.Run("Error case: overlapping selection loses with 409", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A1", "A2"), v.token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		rivalID := dbtest.CreateTestUser(t, s.DB, "bob@example.com")
		rivalToken := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, rivalID)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A2", "A3"), rivalToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		// 負けた側の席は一切確保されていない
		var claims int
		err := s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM booked_seats bs JOIN seats st ON st.id = bs.seat_id WHERE st.id = $1",
			v.seats["A3"]).Scan(&claims)
		require.NoError(t, err)
		require.Equal(t, 0, claims)

		// 外したあと再選択すれば通る
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A3"), rivalToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("Race case: concurrent attempts on one seat sell it exactly once", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		const attempts = 8
		tokens := make([]string, attempts)
		for i := range attempts {
			riderID := dbtest.CreateTestUser(t, s.DB, fmt.Sprintf("rider%d@example.com", i))
			tokens[i] = authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, riderID)
		}

		codes := make(chan int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func(token string) {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "V1"), token)
				codes <- w.Code
			}(tokens[i])
		}
		wg.Wait()
		close(codes)

		created, conflicted := 0, 0
		for code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			default:
				t.Fatalf("unexpected status %d", code)
			}
		}
		require.Equal(t, 1, created)
		require.Equal(t, attempts-1, conflicted)

		var claims int
		err := s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM booked_seats WHERE seat_id = $1", v.seats["V1"]).Scan(&claims)
		require.NoError(t, err)
		require.Equal(t, 1, claims)
	})

	s.Run("Error case: stale price is rejected", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		body := reserveBody(v, "A1")
		body.Seats[0].PriceCents = 100
		body.AmountCents = 100

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, v.token)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("Error case: amount mismatch is rejected", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		body := reserveBody(v, "A1")
		body.AmountCents = 1

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, body, v.token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("Error case: expired token is rejected", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		expired := authtest.NewJWTHelper(s.Config.JWT).CreateExpiredToken(t, v.userID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A1"), expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// =============================================================================
// TestAvailability - Seat listing and availability pre-check
// =============================================================================

func (s *BookingSuite) TestAvailability() {
	s.Run("Normal case: reserved seats show as unavailable", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A1"), v.token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(eventSeatsURL, v.eventID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var seats []response.SeatResponse
		err := httptest.DecodeResponseBody(t, w.Body, &seats)
		require.NoError(t, err)
		require.Len(t, seats, 5)
		for _, seat := range seats {
			if seat.ID == v.seats["A1"] {
				require.False(t, seat.Available)
			} else {
				require.True(t, seat.Available, "seat %s", seat.SeatNumber)
			}
		}

		check := map[string]any{
			"event_id": v.eventID,
			"seat_ids": []uuid.UUID{v.seats["A1"], v.seats["A2"]},
		}
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, availabilityURL, check, v.token)
		require.Equal(t, http.StatusOK, w.Code)

		var avail response.AvailabilityResponse
		err = httptest.DecodeResponseBody(t, w.Body, &avail)
		require.NoError(t, err)
		require.False(t, avail.Available)
		require.Equal(t, []uuid.UUID{v.seats["A1"]}, avail.UnavailableSeats)
	})
}

// =============================================================================
// TestPaymentWebhook - Provider notification reconciliation
// =============================================================================

func (s *BookingSuite) webhookBody(bookingID, userID uuid.UUID, amountCents int64, eventType string) []byte {
	return fmt.Appendf(nil, `{
		"data": {
			"order": {"order_id": %q, "order_amount": %.2f},
			"customer_details": {"customer_id": %q}
		},
		"event_time": "2026-08-30T10:00:00Z",
		"type": %q
	}`, bookingID, float64(amountCents)/100, userID, eventType)
}

func (s *BookingSuite) reserve(t *testing.T, v venue, seatNumbers ...string) response.BookingResponse {
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, seatNumbers...), v.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.BookingResponse
	err := httptest.DecodeResponseBody(t, w.Body, &created)
	require.NoError(t, err)
	return created
}

func (s *BookingSuite) bookingStatus(t *testing.T, bookingID uuid.UUID) string {
	var status string
	err := s.DB.QueryRow(context.Background(),
		"SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&status)
	require.NoError(t, err)
	return status
}

func (s *BookingSuite) TestPaymentWebhook() {
	s.Run("Normal case: success notification finalizes the booking", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1", "A2")

		body := s.webhookBody(created.ID, v.userID, created.AmountCents, "PAYMENT_SUCCESS_WEBHOOK")
		w := s.deliverWebhook(t, body, s.signWebhook(body, webhookTimestamp))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "PROCESSED")

		require.Equal(t, "SUCCESS", s.bookingStatus(t, created.ID))

		var payStatus string
		err := s.DB.QueryRow(context.Background(),
			"SELECT status FROM payments WHERE booking_id = $1", created.ID).Scan(&payStatus)
		require.NoError(t, err)
		require.Equal(t, "SUCCESS", payStatus)
	})

	s.Run("Normal case: redelivery is an idempotent no-op", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1")

		body := s.webhookBody(created.ID, v.userID, created.AmountCents, "PAYMENT_SUCCESS_WEBHOOK")
		sig := s.signWebhook(body, webhookTimestamp)

		w := s.deliverWebhook(t, body, sig)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.deliverWebhook(t, body, sig)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "ALREADY_PROCESSED")

		require.Equal(t, "SUCCESS", s.bookingStatus(t, created.ID))

		var payments int
		err := s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM payments WHERE booking_id = $1", created.ID).Scan(&payments)
		require.NoError(t, err)
		require.Equal(t, 1, payments)
	})

	s.Run("Normal case: failure notification marks the booking FAILED", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1")

		body := s.webhookBody(created.ID, v.userID, created.AmountCents, "PAYMENT_FAILED_WEBHOOK")
		w := s.deliverWebhook(t, body, s.signWebhook(body, webhookTimestamp))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Equal(t, "FAILED", s.bookingStatus(t, created.ID))
	})

	s.Run("Error case: tampered body is rejected before parsing", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1")

		body := s.webhookBody(created.ID, v.userID, created.AmountCents, "PAYMENT_SUCCESS_WEBHOOK")
		sig := s.signWebhook(body, webhookTimestamp)
		tampered := s.webhookBody(created.ID, v.userID, created.AmountCents+100000, "PAYMENT_SUCCESS_WEBHOOK")

		w := s.deliverWebhook(t, tampered, sig)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		require.Equal(t, "PENDING", s.bookingStatus(t, created.ID))
	})

	s.Run("Error case: unknown notification type leaves state untouched", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1")

		body := s.webhookBody(created.ID, v.userID, created.AmountCents, "PAYMENT_REFUND_WEBHOOK")
		w := s.deliverWebhook(t, body, s.signWebhook(body, webhookTimestamp))
		require.Equal(t, http.StatusBadRequest, w.Code)

		require.Equal(t, "PENDING", s.bookingStatus(t, created.ID))
	})
}

// =============================================================================
// TestBookingLifecycle - Full flow from contention to settlement to reclaim
// =============================================================================

func (s *BookingSuite) TestBookingLifecycle() {
	s.Run("Normal case: contention, confirmation and reclaim end to end", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")

		// alice が A1,A2 を確保
		confirmed := s.reserve(t, v, "A1", "A2")
		require.Equal(t, "PENDING", confirmed.Status)

		rivalID := dbtest.CreateTestUser(t, s.DB, "bob@example.com")
		rivalToken := authtest.NewJWTHelper(s.Config.JWT).GenerateToken(t, rivalID)

		// bob の A2,A3 は衝突、A2 を外せば通る
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A2", "A3"), rivalToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A3"), rivalToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var abandoned response.BookingResponse
		err := httptest.DecodeResponseBody(t, w.Body, &abandoned)
		require.NoError(t, err)

		// alice の決済通知だけが届く
		body := s.webhookBody(confirmed.ID, v.userID, confirmed.AmountCents, "PAYMENT_SUCCESS_WEBHOOK")
		w2 := s.deliverWebhook(t, body, s.signWebhook(body, webhookTimestamp))
		require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
		require.Equal(t, "SUCCESS", s.bookingStatus(t, confirmed.ID))

		// 期限が過ぎてスイープが走ると bob の予約だけ回収される
		_, err = s.DB.Exec(context.Background(),
			"UPDATE seats SET locked_until = now() - interval '1 minute' WHERE event_id = $1", v.eventID)
		require.NoError(t, err)

		swept, err := s.Sweeper.Sweep(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, swept)

		require.Equal(t, "SUCCESS", s.bookingStatus(t, confirmed.ID))
		require.Equal(t, "EXPIRED", s.bookingStatus(t, abandoned.ID))

		var soldClaims, reclaimedClaims int
		err = s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM booked_seats WHERE booking_id = $1", confirmed.ID).Scan(&soldClaims)
		require.NoError(t, err)
		require.Equal(t, 2, soldClaims)
		err = s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM booked_seats WHERE booking_id = $1", abandoned.ID).Scan(&reclaimedClaims)
		require.NoError(t, err)
		require.Equal(t, 0, reclaimedClaims)
	})
}

// =============================================================================
// TestExpirySweep - Reclaiming abandoned holds
// =============================================================================

func (s *BookingSuite) TestExpirySweep() {
	s.Run("Normal case: expired pending booking is reclaimed", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1", "A2")

		// ロック期限を過去に倒して期限切れを再現
		_, err := s.DB.Exec(context.Background(),
			"UPDATE seats SET locked_until = now() - interval '1 minute' WHERE event_id = $1", v.eventID)
		require.NoError(t, err)

		swept, err := s.Sweeper.Sweep(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, swept)

		require.Equal(t, "EXPIRED", s.bookingStatus(t, created.ID))

		var claims int
		err = s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM booked_seats WHERE booking_id = $1", created.ID).Scan(&claims)
		require.NoError(t, err)
		require.Equal(t, 0, claims)

		var locked int
		err = s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM seats WHERE event_id = $1 AND locked_until IS NOT NULL", v.eventID).Scan(&locked)
		require.NoError(t, err)
		require.Equal(t, 0, locked)

		// 回収済みの席は再予約できる
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reserveBody(v, "A1"), v.token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("Normal case: finalized bookings are never swept", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1")

		body := s.webhookBody(created.ID, v.userID, created.AmountCents, "PAYMENT_SUCCESS_WEBHOOK")
		w := s.deliverWebhook(t, body, s.signWebhook(body, webhookTimestamp))
		require.Equal(t, http.StatusOK, w.Code)

		_, err := s.DB.Exec(context.Background(),
			"UPDATE seats SET locked_until = now() - interval '1 minute' WHERE event_id = $1", v.eventID)
		require.NoError(t, err)

		swept, err := s.Sweeper.Sweep(context.Background())
		require.NoError(t, err)
		require.Equal(t, 0, swept)

		require.Equal(t, "SUCCESS", s.bookingStatus(t, created.ID))
	})

	s.Run("Race case: webhook after sweep reports already processed", func() {
		t := s.T()
		v := s.seedVenue(t, "alice@example.com")
		created := s.reserve(t, v, "A1")

		_, err := s.DB.Exec(context.Background(),
			"UPDATE seats SET locked_until = now() - interval '1 minute' WHERE event_id = $1", v.eventID)
		require.NoError(t, err)

		swept, err := s.Sweeper.Sweep(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, swept)

		body := s.webhookBody(created.ID, v.userID, created.AmountCents, "PAYMENT_SUCCESS_WEBHOOK")
		w := s.deliverWebhook(t, body, s.signWebhook(body, webhookTimestamp))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "ALREADY_PROCESSED")
		require.Contains(t, w.Body.String(), "EXPIRED")

		require.Equal(t, "EXPIRED", s.bookingStatus(t, created.ID))
	})
}
