package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/domain"
	"github.com/kitbuilder587/wordpredict/internal/service"
)

const (
	HeaderRequestID = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

type Server struct {
	predictor service.PredictionService
	logger    *zap.Logger
}

func NewServer(predictor service.PredictionService, logger *zap.Logger) *Server {
	return &Server{predictor: predictor, logger: logger}
}

// Register mounts the prediction endpoint at / and /predict, matching the
// paths an API Gateway proxy integration forwards. The CORS headers are set
// for every response, including echo's own 404 and 405 replies.
func (s *Server) Register(e *echo.Echo) {
	e.Use(corsHeaders)
	e.Use(s.requestLogger)

	for _, path := range []string{"/", "/predict"} {
		e.POST(path, s.handlePredict)
		e.GET(path, s.handlePredict)
		e.OPTIONS(path, s.handlePreflight)
	}
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handlePredict(c *echo.Context) (err error) {
	reqID := c.Request().Header.Get(HeaderRequestID)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Response().Header().Set(HeaderRequestID, reqID)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in prediction handler",
				zap.String("request_id", reqID),
				zap.Any("panic", r),
			)
			status, body := service.Render(nil, fmt.Errorf("internal error: %v", r))
			err = writeJSON(c, status, body)
		}
	}()

	payload, readErr := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes+1))
	if readErr != nil {
		s.logger.Error("read request body", zap.String("request_id", reqID), zap.Error(readErr))
		status, body := service.Render(nil, fmt.Errorf("read request body: %w", readErr))
		return writeJSON(c, status, body)
	}
	if len(payload) > maxBodyBytes {
		s.logger.Warn("request body too large", zap.String("request_id", reqID), zap.Int("limit", maxBodyBytes))
		status, body := service.Render(nil, fmt.Errorf("%w: %w", domain.ErrMalformedPayload, domain.ErrBodyTooLarge))
		return writeJSON(c, status, body)
	}

	ctx := service.WithRequestID(c.Request().Context(), reqID)
	resp, predictErr := s.predictor.Predict(ctx, payload)
	status, body := service.Render(resp, predictErr)
	return writeJSON(c, status, body)
}

func (s *Server) handlePreflight(c *echo.Context) error {
	setHeaders(c.Response().Header())
	c.Response().WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		start := time.Now()
		err := next(c)
		s.logger.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("request_id", c.Response().Header().Get(HeaderRequestID)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}

func corsHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		setHeaders(c.Response().Header())
		return next(c)
	}
}

func writeJSON(c *echo.Context, status int, body []byte) error {
	res := c.Response()
	setHeaders(res.Header())
	res.WriteHeader(status)
	_, err := res.Write(body)
	return err
}

func setHeaders(h http.Header) {
	for k, v := range service.ResponseHeaders() {
		h.Set(k, v)
	}
}
