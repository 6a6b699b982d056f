package kudos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"kudos/internal/auth"
	"kudos/internal/session"
)

type mockFeed struct {
	sendFunc   func(ctx context.Context, authorID string, req CreateKudoRequest) (*Kudo, error)
	feedFunc   func(ctx context.Context, filter FeedFilter) ([]Kudo, error)
	recentFunc func(ctx context.Context) ([]Kudo, error)
}

func (m *mockFeed) SendKudo(ctx context.Context, authorID string, req CreateKudoRequest) (*Kudo, error) {
	return m.sendFunc(ctx, authorID, req)
}

func (m *mockFeed) Feed(ctx context.Context, filter FeedFilter) ([]Kudo, error) {
	return m.feedFunc(ctx, filter)
}

func (m *mockFeed) Recent(ctx context.Context) ([]Kudo, error) {
	return m.recentFunc(ctx)
}

func setupRouter(t *testing.T, feed Feed) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := session.NewCodec("kudos-handler-test-secret")
	token, err := codec.Issue("author-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := NewHandler(feed)
	router := gin.New()
	group := router.Group("/", auth.RequireUser(codec))
	group.POST("/kudos", handler.Create)
	group.GET("/kudos", handler.List)
	group.GET("/kudos/recent", handler.ListRecent)

	return router, token
}

func authedRequest(method, target, body, token string) *http.Request {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	return req
}

func TestCreateKudo(t *testing.T) {
	var gotAuthor string
	var gotReq CreateKudoRequest
	feed := &mockFeed{
		sendFunc: func(_ context.Context, authorID string, req CreateKudoRequest) (*Kudo, error) {
			gotAuthor = authorID
			gotReq = req
			return &Kudo{
				KudoID:      7,
				AuthorID:    authorID,
				RecipientID: req.RecipientID,
				Message:     req.Message,
				Style:       req.Style,
				CreatedAt:   time.Now(),
			}, nil
		},
	}
	router, token := setupRouter(t, feed)

	body := `{"recipientId":"recipient-1","message":"great sprint","style":{"backgroundColor":"blue","textColor":"white","emoji":"rocket"}}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/kudos", body, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotAuthor != "author-1" {
		t.Errorf("expected author from session, got %q", gotAuthor)
	}
	if gotReq.RecipientID != "recipient-1" || gotReq.Style.Emoji != "rocket" {
		t.Errorf("unexpected request passed to service: %+v", gotReq)
	}

	var created Kudo
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.KudoID != 7 {
		t.Errorf("expected kudo id 7, got %d", created.KudoID)
	}
}

func TestCreateKudoToSelfRejected(t *testing.T) {
	feed := &mockFeed{
		sendFunc: func(_ context.Context, _ string, _ CreateKudoRequest) (*Kudo, error) {
			t.Fatal("service must not be called for self-kudos")
			return nil, nil
		},
	}
	router, token := setupRouter(t, feed)

	body := `{"recipientId":"author-1","message":"nice"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/kudos", body, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateKudoUnknownRecipient(t *testing.T) {
	feed := &mockFeed{
		sendFunc: func(_ context.Context, _ string, _ CreateKudoRequest) (*Kudo, error) {
			return nil, ErrRecipientNotFound
		},
	}
	router, token := setupRouter(t, feed)

	body := `{"recipientId":"ghost","message":"hello"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/kudos", body, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Recipient not found") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestCreateKudoMissingMessage(t *testing.T) {
	feed := &mockFeed{
		sendFunc: func(_ context.Context, _ string, _ CreateKudoRequest) (*Kudo, error) {
			t.Fatal("service must not be called for invalid payloads")
			return nil, nil
		},
	}
	router, token := setupRouter(t, feed)

	body := `{"recipientId":"recipient-1"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/kudos", body, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListPassesFilter(t *testing.T) {
	var gotFilter FeedFilter
	feed := &mockFeed{
		feedFunc: func(_ context.Context, filter FeedFilter) ([]Kudo, error) {
			gotFilter = filter
			return []Kudo{{KudoID: 1, Message: "hi"}}, nil
		},
	}
	router, token := setupRouter(t, feed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/kudos?sort=emoji&filter=alice", "", token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotFilter.Sort != "emoji" || gotFilter.Search != "alice" {
		t.Errorf("unexpected filter: %+v", gotFilter)
	}

	var resp FeedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Kudos) != 1 {
		t.Errorf("expected one kudo, got %d", len(resp.Kudos))
	}
}

func TestListUnknownSortFallsBackToDate(t *testing.T) {
	var gotFilter FeedFilter
	feed := &mockFeed{
		feedFunc: func(_ context.Context, filter FeedFilter) ([]Kudo, error) {
			gotFilter = filter
			return nil, nil
		},
	}
	router, token := setupRouter(t, feed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/kudos?sort=bogus", "", token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotFilter.Sort != "date" {
		t.Errorf("expected fallback to date sort, got %q", gotFilter.Sort)
	}
}

func TestListEmptyFeedIsEmptyArray(t *testing.T) {
	feed := &mockFeed{
		feedFunc: func(_ context.Context, _ FeedFilter) ([]Kudo, error) {
			return []Kudo{}, nil
		},
	}
	router, token := setupRouter(t, feed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/kudos", "", token))

	if !strings.Contains(w.Body.String(), `"kudos":[]`) {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestRecent(t *testing.T) {
	feed := &mockFeed{
		recentFunc: func(_ context.Context) ([]Kudo, error) {
			return []Kudo{{KudoID: 3}, {KudoID: 2}, {KudoID: 1}}, nil
		},
	}
	router, token := setupRouter(t, feed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/kudos/recent", "", token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp FeedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Kudos) != 3 || resp.Kudos[0].KudoID != 3 {
		t.Errorf("unexpected recent kudos: %+v", resp.Kudos)
	}
}

func TestKudosRequireSession(t *testing.T) {
	feed := &mockFeed{
		feedFunc: func(_ context.Context, _ FeedFilter) ([]Kudo, error) {
			t.Fatal("service must not be called without a session")
			return nil, nil
		},
	}
	router, _ := setupRouter(t, feed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/kudos", nil))

	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "/login?redirectTo=") {
		t.Errorf("unexpected redirect target: %s", loc)
	}
}
