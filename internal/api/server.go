// Package api exposes the resume analysis pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/ai"
	"github.com/spigell/resume-agent/internal/document"
	"github.com/spigell/resume-agent/internal/jobsearch"
	"github.com/spigell/resume-agent/internal/logger"
	"github.com/spigell/resume-agent/internal/skills"
)

const (
	appName = "Resume Improvement Agent API"

	defaultAddress   = ":8000"
	defaultBodyLimit = 10 << 20
	defaultTimeout   = 60 * time.Second
)

// DefaultAllowOrigins matches a local frontend dev server.
var DefaultAllowOrigins = []string{"http://localhost:3000"}

type Config struct {
	Address      string
	AllowOrigins []string
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Finder searches job listings for a resume.
type Finder interface {
	Find(ctx context.Context, req jobsearch.Request) (*jobsearch.Result, error)
}

// Deps are the collaborators behind the handlers. Writer and Finder are optional.
type Deps struct {
	Analyzer *skills.Analyzer
	Writer   ai.Writer
	Finder   Finder
}

type Server struct {
	app      *fiber.App
	cfg      Config
	analyzer *skills.Analyzer
	writer   ai.Writer
	finder   Finder
	log      *zap.Logger
}

func New(cfg Config, deps Deps, log *zap.Logger) *Server {
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = DefaultAllowOrigins
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = defaultBodyLimit
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultTimeout
	}
	if deps.Analyzer == nil {
		deps.Analyzer = skills.NewAnalyzer(nil, nil)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cfg:      cfg,
		analyzer: deps.Analyzer,
		writer:   deps.Writer,
		finder:   deps.Finder,
		log:      logger.Component(log, "api"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               appName,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	s.routes()

	return s
}

func (s *Server) routes() {
	allowCredentials := true
	for _, origin := range s.cfg.AllowOrigins {
		if origin == "*" {
			allowCredentials = false
		}
	}

	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	s.app.Use(s.requestLogger)
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(s.cfg.AllowOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: allowCredentials,
	}))

	s.app.Get("/", s.handleRoot)
	s.app.Get("/health", s.handleHealth)
	s.app.Post("/analyze/", s.handleAnalyze)
	s.app.Post("/generate-cover-letter/", s.handleCoverLetter)
	s.app.Post("/find-jobs/", s.handleFindJobs)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	s.log.Info("starting http server", zap.String("address", s.cfg.Address))
	return s.app.Listen(s.cfg.Address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = errorStatus(err)
		}
	}

	s.requestLog(c).Info("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)

	return err
}

func (s *Server) requestLog(c *fiber.Ctx) *zap.Logger {
	return logger.WithFields(s.log, logger.StringFields(
		logger.StringField{Key: logger.FieldRequestID, Value: c.GetRespHeader(fiber.HeaderXRequestID)},
	)...)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := errorStatus(err)
	detail := err.Error()

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		detail = fe.Message
	case errors.Is(err, document.ErrUnsupportedFormat):
		detail = "Unsupported file type. Please upload PDF or DOCX."
	case errors.Is(err, jobsearch.ErrNoSearchTerms):
		detail = "No search query provided and no skills found in resume."
	case code == fiber.StatusInternalServerError:
		s.requestLog(c).Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		detail = http.StatusText(code)
	}

	return c.Status(code).JSON(ErrorResponse{Detail: detail})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, document.ErrCorruptDocument), errors.Is(err, jobsearch.ErrNoSearchTerms):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
