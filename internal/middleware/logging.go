package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var sugar = zap.NewNop().Sugar()

// SetLogger устанавливает логгер для мидлварей
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		sugar = l
	}
}

// requestInfo заполняется мидлварями ниже по цепочке: они получают копию запроса,
// а WithLogging читает исходный.
type requestInfo struct {
	accountID string
}

func withRequestInfo(ctx context.Context) (context.Context, *requestInfo) {
	ri := &requestInfo{}
	return context.WithValue(ctx, requestInfoKey, ri), ri
}

// noteAccountID сообщает WithLogging аккаунт запроса.
func noteAccountID(ctx context.Context, accountID string) {
	if ri, ok := ctx.Value(requestInfoKey).(*requestInfo); ok {
		ri.accountID = accountID
	}
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// WithLogging логирует метод, путь, статус, размер ответа и длительность запроса.
// Заголовки и тело не логируются: в них пароли и токены.
func WithLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rd := &responseData{status: http.StatusOK}
		lw := &loggingResponseWriter{ResponseWriter: w, responseData: rd}
		ctx, ri := withRequestInfo(r.Context())

		h.ServeHTTP(lw, r.WithContext(ctx))

		fields := []any{
			"method", r.Method,
			"uri", r.URL.Path,
			"status", rd.status,
			"size", rd.size,
			"duration", time.Since(start),
		}
		if ri.accountID != "" {
			fields = append(fields, "account_id", ri.accountID)
		}
		sugar.Infow("request", fields...)
	})
}
