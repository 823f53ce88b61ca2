//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"ticket-booking/internal/handler/api"
	resdto "ticket-booking/internal/handler/dto/response"
	"ticket-booking/internal/pkg/errs"
	"ticket-booking/internal/usecase/commands"
	"ticket-booking/internal/usecase/queries"
	"ticket-booking/tests/common/builder"
	"ticket-booking/tests/common/httptest"
	"ticket-booking/tests/common/testutil"
	commandsmock "ticket-booking/tests/mock/commands"
	queriesmock "ticket-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockCtrl        *gomock.Controller
	mockReservation *commandsmock.MockReservationCommands
	mockBookings    *queriesmock.MockBookingQueries
	mockSeats       *queriesmock.MockSeatQueries
	handler         *api.BookingHandler
	userID          uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockReservation = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockBookings = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.mockSeats = queriesmock.NewMockSeatQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockReservation, s.mockBookings, s.mockSeats)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", s.userID)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/bookings", authMiddleware, s.handler.GetUserBookings)
	s.router.POST("/bookings/availability", authMiddleware, s.handler.CheckAvailability)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestCreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"

	s.Run("creates a pending booking", func() {
		b := builder.NewBookingBuilder()
		b.UserID = s.userID
		req := b.BuildCreateRequestDTO()

		s.mockReservation.EXPECT().
			Reserve(gomock.Any(), gomock.Any()).
			Return(b.BuildView(), nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(b.ID, resp.ID)
		s.Equal("PENDING", resp.Status)
		s.Len(resp.Seats, 2)
	})

	s.Run("unauthenticated", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("seat conflict maps to 409", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()

		s.mockReservation.EXPECT().
			Reserve(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("seat is already claimed"), commands.ErrSeatUnavailable))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "token")
		s.Equal(http.StatusConflict, w.Code)
		s.Contains(w.Body.String(), "no longer available")
	})

	s.Run("amount mismatch maps to 400", func() {
		req := builder.NewBookingBuilder().BuildCreateRequestDTO()

		s.mockReservation.EXPECT().
			Reserve(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(errs.New("amount does not match"), commands.ErrAmountMismatch))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("invalid seat type rejected before the usecase", func() {
		req := testutil.DtoMap(s.T(), builder.NewBookingBuilder().BuildCreateRequestDTO(), func(m map[string]any) {
			seats := m["seats"].([]any)
			seat := seats[0].(map[string]any)
			seat["seat_type"] = "THRONE"
		})

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("empty seat list fails binding", func() {
		req := testutil.DtoMap(s.T(), builder.NewBookingBuilder().BuildCreateRequestDTO(), testutil.Field("seats", []any{}))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, req, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

// ================================================================================
// TestGetBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetBooking() {
	s.Run("owner fetches own booking", func() {
		b := builder.NewBookingBuilder()
		b.UserID = s.userID

		s.mockBookings.EXPECT().
			GetByID(gomock.Any(), b.ID, s.userID).
			Return(b.BuildView(), nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+b.ID.String(), nil, "token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(b.ID, resp.ID)
	})

	s.Run("foreign booking hidden as 404", func() {
		id := uuid.New()

		s.mockBookings.EXPECT().
			GetByID(gomock.Any(), id, s.userID).
			Return(nil, errs.Mark(errs.New("booking belongs to another user"), queries.ErrAccessDenied))

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil, "token")
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("invalid id format", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

// ================================================================================
// TestGetUserBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetUserBookings() {
	s.Run("lists current user's bookings", func() {
		items := []*queries.BookingListItem{
			{ID: uuid.New(), EventID: uuid.New(), AmountCents: 5000, Status: "SUCCESS", SeatCount: 2},
		}

		s.mockBookings.EXPECT().
			ListByUser(gomock.Any(), s.userID).
			Return(items, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "token")

		var resp []*resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Len(resp, 1)
		s.Equal(int64(2), resp[0].SeatCount)
	})
}

// ================================================================================
// TestCheckAvailability
// ================================================================================

func (s *BookingHandlerTestSuite) TestCheckAvailability() {
	url := "/bookings/availability"

	s.Run("reports unavailable seats", func() {
		eventID := uuid.New()
		taken := uuid.New()
		body := map[string]any{
			"event_id": eventID,
			"seat_ids": []string{taken.String()},
		}

		s.mockSeats.EXPECT().
			CheckAvailability(gomock.Any(), eventID, []uuid.UUID{taken}).
			Return(&queries.AvailabilityResult{Available: false, UnavailableSeats: []uuid.UUID{taken}}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")

		var resp resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.False(resp.Available)
		s.Equal([]uuid.UUID{taken}, resp.UnavailableSeats)
	})

	s.Run("empty seat ids fails binding", func() {
		body := map[string]any{"event_id": uuid.New(), "seat_ids": []string{}}
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
