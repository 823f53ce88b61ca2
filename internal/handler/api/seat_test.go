//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"ticket-booking/internal/handler/api"
	resdto "ticket-booking/internal/handler/dto/response"
	"ticket-booking/internal/usecase/queries"
	"ticket-booking/tests/common/builder"
	"ticket-booking/tests/common/httptest"
	queriesmock "ticket-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SeatHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	mockSeats *queriesmock.MockSeatQueries
}

func (s *SeatHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockSeats = queriesmock.NewMockSeatQueries(s.mockCtrl)
	handler := api.NewSeatHandler(s.mockSeats)

	// Seat listing is public, no auth middleware
	s.router.GET("/events/:id/seats", handler.ListEventSeats)
}

func (s *SeatHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSeatHandlerSuite(t *testing.T) {
	suite.Run(t, new(SeatHandlerTestSuite))
}

func (s *SeatHandlerTestSuite) TestListEventSeats() {
	s.Run("lists seats with availability", func() {
		eventID := uuid.New()
		views := []*queries.SeatView{
			builder.NewSeatBuilder().With(func(b *builder.SeatBuilder) { b.EventID = eventID }).BuildView(true),
			builder.NewSeatBuilder().With(func(b *builder.SeatBuilder) {
				b.EventID = eventID
				b.SeatNumber = "A2"
				b.Claimed = true
			}).BuildView(false),
		}

		s.mockSeats.EXPECT().
			ListByEvent(gomock.Any(), eventID).
			Return(views, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/events/"+eventID.String()+"/seats", nil, "")

		var resp []*resdto.SeatResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Len(resp, 2)
		s.True(resp[0].Available)
		s.False(resp[1].Available)
	})

	s.Run("invalid event id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/events/not-a-uuid/seats", nil, "")
		s.Equal(http.StatusBadRequest, w.Code)
	})
}
