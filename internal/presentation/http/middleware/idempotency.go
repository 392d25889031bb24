package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *zap.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request repeats its Idempotency-Key.
// Requests without the header pass through. Only 2xx responses are stored so failed
// attempts can be retried with the same key.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		userID, ok := c.Get(ContextUserID)
		if !ok {
			c.Next()
			return
		}
		uid, ok := userID.(uuid.UUID)
		if !ok {
			c.Next()
			return
		}

		endpoint := c.Request.Method + " " + c.Request.URL.Path
		existing, err := config.Repo.GetByKey(c.Request.Context(), idempotencyKey, uid)
		if err != nil {
			log.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			if existing.Endpoint != endpoint {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used for a different request")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		ikey := &entity.IdempotencyKey{
			Key:          idempotencyKey,
			UserID:       uid,
			Endpoint:     endpoint,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Save(c.Request.Context(), ikey); err != nil {
			log.Warn("failed to store idempotency key", zap.Error(err))
		}
	}
}

// PurgeExpiredKeys deletes expired idempotency keys every interval until ctx is done
func PurgeExpiredKeys(ctx context.Context, repo repository.IdempotencyRepository, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn("failed to purge idempotency keys", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged idempotency keys", zap.Int64("count", n))
			}
		}
	}
}
