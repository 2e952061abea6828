package testserver

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Recorded is the part of an incoming request that tests assert on.
type Recorded struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
	UserAgent     string
	ContentType   string
}

// Server is a running fake.
type Server struct {
	// URL is the base URL a client should be pointed at.
	URL string

	ts       *httptest.Server
	mu       sync.Mutex
	requests []Recorded
	failures []failure
}

type failure struct {
	status int
	body   string
}

// start serves engine after installing the recording middleware and
// registering routes under prefix.
func start(tb testing.TB, prefix string, register func(gin.IRouter)) *Server {
	tb.Helper()

	s := &Server{}
	engine := gin.New()
	engine.Use(gin.Recovery(), s.record(), s.injectFailure())
	register(engine.Group(prefix))

	s.ts = httptest.NewServer(engine)
	s.URL = s.ts.URL + prefix
	tb.Cleanup(s.Close)
	return s
}

// Close shuts the server down. It is safe to call more than once.
func (s *Server) Close() {
	s.ts.Close()
}

// Requests returns the requests received so far, oldest first.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// FailNext makes the next request answer with status and the raw body
// instead of reaching its handler. Calls queue up.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, body: body})
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			RawQuery:      c.Request.URL.RawQuery,
			Authorization: c.GetHeader("Authorization"),
			RequestID:     id,
			UserAgent:     c.GetHeader("User-Agent"),
			ContentType:   c.GetHeader("Content-Type"),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) injectFailure() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		if len(s.failures) == 0 {
			s.mu.Unlock()
			c.Next()
			return
		}
		f := s.failures[0]
		s.failures = s.failures[1:]
		s.mu.Unlock()

		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
	}
}

// notFound answers with the FastAPI string detail.
func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": what + " not found"})
}
