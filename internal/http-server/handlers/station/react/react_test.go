package react

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/radio-hosting/internal/models"
	"github.com/magabrotheeeer/radio-hosting/internal/services/station"
	"github.com/magabrotheeeer/radio-hosting/internal/storage/repository"
)

// MockService реализует интерфейс react.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) React(ctx context.Context, name string, req models.DummyReaction) (*repository.ReactionCounts, error) {
	args := m.Called(ctx, name, req)
	if res := args.Get(0); res != nil {
		return res.(*repository.ReactionCounts), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReactHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		stationName    string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "лайк засчитан",
			stationName: "deep-house-fm",
			body:        `{"reactionType":"likes","increment":true}`,
			setupMock: func(m *MockService) {
				m.On("React", mock.Anything, "deep-house-fm", mock.MatchedBy(func(req models.DummyReaction) bool {
					return req.ReactionType == "likes" && req.Increment != nil && *req.Increment
				})).Return(&repository.ReactionCounts{Likes: 8, Flags: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"likes":8`,
		},
		{
			name:        "снятие жалобы",
			stationName: "deep-house-fm",
			body:        `{"reactionType":"flags","increment":false}`,
			setupMock: func(m *MockService) {
				m.On("React", mock.Anything, "deep-house-fm", mock.MatchedBy(func(req models.DummyReaction) bool {
					return req.ReactionType == "flags" && req.Increment != nil && !*req.Increment
				})).Return(&repository.ReactionCounts{Likes: 8, Flags: 0}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"flags":0`,
		},
		{
			name:           "неизвестный тип реакции",
			stationName:    "deep-house-fm",
			body:           `{"reactionType":"listener_count","increment":true}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ReactionType must be one of`,
		},
		{
			name:           "отсутствует increment",
			stationName:    "deep-house-fm",
			body:           `{"reactionType":"likes"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Increment is a required field`,
		},
		{
			name:        "станция не найдена",
			stationName: "ghost-fm",
			body:        `{"reactionType":"likes","increment":true}`,
			setupMock: func(m *MockService) {
				m.On("React", mock.Anything, "ghost-fm", mock.Anything).
					Return(nil, station.ErrStationNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"station not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/"+tt.stationName+"/react", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("stationName", tt.stationName)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
