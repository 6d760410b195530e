package boundary

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/trainer-api/internal/pkg/logger"
)

// UnaryServerInterceptor classifies any error returned by a unary handler
// and replaces it with a status carrying the error code as ErrorInfo.
func (b *Boundary) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if _, ok := status.FromError(err); ok {
			return resp, err
		}

		f := b.classifier.Inspect(err)
		b.metrics.Observe(f)

		e := logger.FromContextWith(ctx, b.log).WithFields(logger.Fields{
			"grpc_method": info.FullMethod,
			"status":      f.Status,
			"error_code":  f.ErrorCode,
			"kind":        f.Kind.String(),
		})
		if f.Status >= 500 {
			e.WithError(err).Error(f.Message)
		} else {
			e.Warn(f.Message)
		}

		return nil, b.classifier.GRPCStatus(err).Err()
	}
}

// RecoveryOption makes the recovery interceptor return a classified
// internal status instead of the panic text.
func (b *Boundary) RecoveryOption() recovery.Option {
	return recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		fault := panicFault(p)
		f := b.classifier.Inspect(fault)
		b.metrics.Observe(f)

		logger.FromContextWith(ctx, b.log).
			WithField("panic", fmt.Sprint(p)).
			WithField("kind", f.Kind.String()).
			Error("recovered from panic in grpc handler")

		return b.classifier.GRPCStatus(fault).Err()
	})
}

// InterceptorLogger adapts a logrus logger to the go-grpc-middleware
// logging interceptor.
func InterceptorLogger(l logrus.FieldLogger) logging.Logger {
	return logging.LoggerFunc(func(_ context.Context, lvl logging.Level, msg string, fields ...any) {
		f := make(map[string]any, len(fields)/2)
		i := logging.Fields(fields).Iterator()
		for i.Next() {
			k, v := i.At()
			f[k] = v
		}
		e := l.WithFields(f)

		switch lvl {
		case logging.LevelDebug:
			e.Debug(msg)
		case logging.LevelInfo:
			e.Info(msg)
		case logging.LevelWarn:
			e.Warn(msg)
		case logging.LevelError:
			e.Error(msg)
		default:
			e.WithField("level", int(lvl)).Info(msg)
		}
	})
}

// UnaryInterceptors returns the server chain: logging, recovery, then
// classification. Today the server registers only health and reflection,
// so the chain mostly sees status errors it passes through; any service
// registered later gets classified faults without further wiring.
func (b *Boundary) UnaryInterceptors() []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		logging.UnaryServerInterceptor(InterceptorLogger(b.log)),
		recovery.UnaryServerInterceptor(b.RecoveryOption()),
		b.UnaryServerInterceptor(),
	}
}
