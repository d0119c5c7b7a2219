package internal

import (
	"chat-relay/domain/chat"
	"chat-relay/mocks"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestInspector_Renders_Journal(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	journal := mocks.NewMockIJournal(ctrl)

	// Given the journal holds one eviction
	journal.EXPECT().List(5).Return([]chat.PresenceEvent{{
		ID:        uuid.New(),
		Kind:      chat.Evicted,
		Name:      "ghost",
		Transport: chat.Datagram,
		Addr:      "10.0.0.9:5000",
		At:        time.Now(),
	}}, nil)

	handler := NewInspector(journal, func() map[string]any { return map[string]any{"Sessions": 3} })

	// When the page is requested
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inspect?limit=5", nil))

	// Then the row and the stats are rendered
	req.Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	req.Contains(body, "ghost")
	req.Contains(body, "10.0.0.9:5000")
	req.Contains(body, `class="evicted"`)
	req.Contains(body, "Sessions: 3")
}

func TestInspector_Default_Limit(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	journal := mocks.NewMockIJournal(ctrl)
	journal.EXPECT().List(defaultInspectLimit).Return(nil, nil)

	rec := httptest.NewRecorder()
	NewInspector(journal, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inspect?limit=nope", nil))

	req.Equal(http.StatusOK, rec.Code)
}
