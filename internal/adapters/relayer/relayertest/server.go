// Package relayertest provides an in-process fake relayer for tests.
package relayertest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
)

// AuthHeader is the header whose presence marks a request as authenticated
const AuthHeader = "POLY_BUILDER_API_KEY"

// RecordedRequest captures what the fake relayer received
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
}

// Server is a fake relayer backed by gin
type Server struct {
	*httptest.Server

	// RequireAuth rejects unauthenticated /submit and /transactions calls with 401
	RequireAuth bool

	mu        sync.Mutex
	nonces    map[string]string
	deployed  map[string]bool
	records   map[string]*models.RelayerTransaction
	states    map[string][]models.TransactionState
	failures  map[string]int
	order     []string
	submitted []models.TransactionRequest
	requests  []RecordedRequest
	nextID    int
}

// NewServer starts a fake relayer. Call Close when done.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		nonces:   make(map[string]string),
		deployed: make(map[string]bool),
		records:  make(map[string]*models.RelayerTransaction),
		states:   make(map[string][]models.TransactionState),
		failures: make(map[string]int),
	}

	router := gin.New()
	router.Use(s.record, s.failInjected)
	router.GET("/nonce", s.getNonce)
	router.GET("/transaction", s.getTransaction)
	router.GET("/deployed", s.getDeployed)

	authed := router.Group("/", s.auth)
	authed.GET("/transactions", s.getTransactions)
	authed.POST("/submit", s.submit)

	s.Server = httptest.NewServer(router)
	return s
}

// SetNonce sets the nonce returned for a signer address
func (s *Server) SetNonce(address, nonce string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nonces[strings.ToLower(address)] = nonce
}

// SetDeployed marks a Safe address as deployed or not
func (s *Server) SetDeployed(address string, deployed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deployed[strings.ToLower(address)] = deployed
}

// AddTransaction stores a record served by /transaction and /transactions
func (s *Server) AddTransaction(tx models.RelayerTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := tx
	s.store(&rec)
}

// QueueStates makes successive /transaction lookups for id report the given states.
// The last state sticks once the queue is drained.
func (s *Server) QueueStates(id string, states ...models.TransactionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = append(s.states[id], states...)
}

// FailNext makes the next n requests to path answer 500
func (s *Server) FailNext(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = n
}

// Submitted returns every request body accepted by /submit
func (s *Server) Submitted() []models.TransactionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.TransactionRequest(nil), s.submitted...)
}

// Requests returns every request the server received
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// CountRequests returns how many requests hit path
func (s *Server) CountRequests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.RawQuery,
		Headers: c.Request.Header.Clone(),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) failInjected(c *gin.Context) {
	s.mu.Lock()
	n := s.failures[c.Request.URL.Path]
	if n > 0 {
		s.failures[c.Request.URL.Path] = n - 1
	}
	s.mu.Unlock()

	if n > 0 {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

func (s *Server) auth(c *gin.Context) {
	if s.RequireAuth && c.GetHeader(AuthHeader) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) getNonce(c *gin.Context) {
	address := c.Query("address")
	if address == "" || c.Query("type") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and type are required"})
		return
	}

	s.mu.Lock()
	nonce, ok := s.nonces[strings.ToLower(address)]
	s.mu.Unlock()
	if !ok {
		nonce = "0"
	}
	c.JSON(http.StatusOK, models.NoncePayload{Nonce: nonce})
}

func (s *Server) getDeployed(c *gin.Context) {
	s.mu.Lock()
	deployed := s.deployed[strings.ToLower(c.Query("address"))]
	s.mu.Unlock()
	c.JSON(http.StatusOK, models.DeployedPayload{Deployed: deployed})
}

func (s *Server) getTransaction(c *gin.Context) {
	id := c.Query("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		c.JSON(http.StatusOK, []models.RelayerTransaction{})
		return
	}

	if queue := s.states[id]; len(queue) > 0 {
		rec.State = queue[0]
		rec.UpdatedAt = time.Now().UTC()
		if len(queue) > 1 {
			s.states[id] = queue[1:]
		}
	}
	c.JSON(http.StatusOK, []models.RelayerTransaction{*rec})
}

func (s *Server) getTransactions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := make([]models.RelayerTransaction, 0, len(s.order))
	for _, id := range s.order {
		txs = append(txs, *s.records[id])
	}
	c.JSON(http.StatusOK, txs)
}

func (s *Server) submit(c *gin.Context) {
	var req models.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := transactionID(s.nextID)
	now := time.Now().UTC()
	s.submitted = append(s.submitted, req)
	s.store(&models.RelayerTransaction{
		TransactionID: id,
		From:          req.From,
		To:            req.To,
		ProxyAddress:  req.ProxyWallet,
		Data:          req.Data,
		Nonce:         req.Nonce,
		State:         models.StateNew,
		Type:          req.Type,
		Metadata:      req.Metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	})

	c.JSON(http.StatusOK, models.SubmitResponse{
		TransactionID: id,
		State:         models.StateNew,
	})
}

func (s *Server) store(rec *models.RelayerTransaction) {
	if _, ok := s.records[rec.TransactionID]; !ok {
		s.order = append(s.order, rec.TransactionID)
	}
	s.records[rec.TransactionID] = rec
}

func transactionID(n int) string {
	return fmt.Sprintf("tx-%d", n)
}
