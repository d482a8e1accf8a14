package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthProviderHeader carries the caller identity that the gateway would otherwise
// put on the request context.
const AuthProviderHeader = "X-Authentication-Provider"

// EventHandler processes one gateway request. *bulkdownload.Handler satisfies it.
type EventHandler interface {
	Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// Server exposes the bulk download handler over plain HTTP.
type Server struct {
	handler EventHandler
	router  *gin.Engine
	logger  *slog.Logger
}

// NewServer wires the routes. Metrics are served only when gatherer is not nil.
func NewServer(handler EventHandler, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		handler: handler,
		router:  router,
		logger:  logger,
	}

	router.GET("/healthz", s.handleHealth)
	router.POST("/bulk-download", s.handleBulkDownload)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleBulkDownload(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.logger.Warn("failed to read request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"code": "BAD_REQUEST", "message": "failed to read request body"})
		return
	}

	resp, err := s.handler.Handle(c.Request.Context(), toEvent(c, body))
	if err != nil {
		s.logger.Error("bulk download handler failed", "error", err)
		c.JSON(http.StatusInternalServerError, err.Error())
		return
	}

	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	contentType := resp.Headers["Content-Type"]
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, []byte(resp.Body))
}

func toEvent(c *gin.Context, body []byte) events.APIGatewayProxyRequest {
	r := c.Request
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	event := events.APIGatewayProxyRequest{
		HTTPMethod:        r.Method,
		Path:              r.URL.Path,
		Headers:           headers,
		MultiValueHeaders: r.Header,
		Body:              string(body),
	}
	event.RequestContext.Identity.CognitoAuthenticationProvider = r.Header.Get(AuthProviderHeader)
	event.RequestContext.Identity.SourceIP = c.ClientIP()

	return event
}
