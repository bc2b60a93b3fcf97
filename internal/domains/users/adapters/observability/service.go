package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userdomain "github.com/Fedi-Riahi/mar/internal/domains/users/domain"
	userports "github.com/Fedi-Riahi/mar/internal/domains/users/ports"
	"github.com/Fedi-Riahi/mar/internal/shared/auth"
)

const tracerName = "github.com/Fedi-Riahi/mar/internal/domains/users/adapters/observability/service"

// Service decorates the users service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core users service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Register(ctx context.Context, input userports.RegisterInput) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register")
	defer span.End()

	s.logInfo(ctx, "registering user")
	result, err := s.inner.Register(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user")
	}
	s.metrics.recordRegistered(ctx, result.Role)
	s.logInfo(ctx, "user registered", slog.String("user.id", result.ID), slog.String("user.role", string(result.Role)))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*userports.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login")
	defer span.End()

	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		// Credentials never reach the log.
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "user logged in", slog.String("user.id", result.User.ID))
	return result, nil
}

func (s *Service) Logout(ctx context.Context, caller auth.Caller) {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout", trace.WithAttributes(attribute.String("user.id", caller.UserID)))
	defer span.End()

	s.inner.Logout(ctx, caller)
	s.logInfo(ctx, "user logged out", slog.String("user.id", caller.UserID))
}

func (s *Service) Authenticate(ctx context.Context, token string) (auth.Caller, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()

	caller, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return auth.Caller{}, err
	}
	return caller, nil
}

func (s *Service) GetByID(ctx context.Context, caller auth.Caller, id string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByID", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load user", slog.String("user.id", id))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, caller auth.Caller) ([]*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer span.End()

	result, err := s.inner.List(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list users")
	}
	span.SetAttributes(attribute.Int("user.count", len(result)))
	return result, nil
}

func (s *Service) SetRole(ctx context.Context, caller auth.Caller, id string, role auth.Role) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.SetRole",
		trace.WithAttributes(attribute.String("user.id", id), attribute.String("user.role", string(role))))
	defer span.End()

	s.logInfo(ctx, "updating user role", slog.String("user.id", id), slog.String("role", string(role)))
	result, err := s.inner.SetRole(ctx, caller, id, role)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update user role", slog.String("user.id", id))
	}
	s.logInfo(ctx, "user role updated", slog.String("user.id", id), slog.String("role", string(result.Role)))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, caller auth.Caller, id string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting user", slog.String("user.id", id))
	if err := s.inner.Delete(ctx, caller, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete user", slog.String("user.id", id))
	}
	s.logInfo(ctx, "user deleted", slog.String("user.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	usersRegistered metric.Int64Counter
	logins          metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	usersRegistered, _ := m.Int64Counter("users.service.users_registered", metric.WithDescription("Number of accounts created"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	return serviceMetrics{usersRegistered: usersRegistered, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context, role auth.Role) {
	if m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1, metric.WithAttributes(attribute.String("user.role", string(role))))
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

var _ userports.Service = (*Service)(nil)
