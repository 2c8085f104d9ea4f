package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/clock"
	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// DefaultTTL задаёт время жизни ключа идемпотентности.
const DefaultTTL = 24 * time.Hour

var (
	// ErrInProgress возвращается, пока запрос с тем же ключом ещё выполняется.
	ErrInProgress = errors.New("request with the same idempotency key is already processing")
	// ErrKeyReused возвращается, если ключ уже использован с другим телом запроса.
	ErrKeyReused = errors.New("idempotency key is already used with different request payload")
)

// Response — ответ, который сохраняется под ключом и повторяется клиенту.
// Status — HTTP-эквивалент результата: по нему решается, кэшировать ли ответ.
type Response struct {
	Status int
	Body   []byte
}

// Guard оборачивает неидемпотентную операцию ключом идемпотентности.
type Guard struct {
	repo   domain.IdempotencyRepository
	ttl    time.Duration
	logger *log.Entry
	clock  clock.Clock
}

// GuardOption настраивает Guard.
type GuardOption func(*Guard)

// WithTTL задаёт время жизни ключа.
func WithTTL(ttl time.Duration) GuardOption {
	return func(g *Guard) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithGuardLogger задаёт logger.
func WithGuardLogger(logger *log.Entry) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithGuardClock задаёт часы, от которых отсчитывается TTL ключа.
func WithGuardClock(c clock.Clock) GuardOption {
	return func(g *Guard) {
		if c != nil {
			g.clock = c
		}
	}
}

// NewGuard создаёт Guard. С nil-репозиторием ключи игнорируются.
func NewGuard(repo domain.IdempotencyRepository, options ...GuardOption) *Guard {
	g := &Guard{
		repo:   repo,
		ttl:    DefaultTTL,
		logger: log.WithField("component", "idempotency"),
		clock:  clock.NewSystem(),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Enabled сообщает, подключено ли хранилище ключей.
func (g *Guard) Enabled() bool {
	return g != nil && g.repo != nil
}

// Do выполняет handler не более одного раза для пары (key, requestHash).
//
// Успешный ответ и бизнес-отказ (4xx) сохраняются и повторяются. После
// ответа 5xx или ошибки handler ключ освобождается, и запрос можно повторить.
// replayed == true, если ответ взят из кэша.
func (g *Guard) Do(ctx context.Context, key, requestHash string, handler func(ctx context.Context) (Response, error)) (resp Response, replayed bool, err error) {
	key = strings.TrimSpace(key)
	if key == "" || !g.Enabled() {
		resp, err = handler(ctx)
		return resp, false, err
	}

	record, err := g.repo.CreateProcessing(ctx, key, requestHash, g.clock.Now().Add(g.ttl))
	if err != nil {
		resp, err = replay(err, record)
		return resp, err == nil, err
	}

	resp, err = handler(ctx)
	logger := g.logger.WithField("idempotency_key", key)

	switch {
	case err != nil || resp.Status >= 500:
		if releaseErr := g.repo.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
			logger.WithError(releaseErr).Warn("failed to release idempotency key")
		}
	case resp.Status >= 400:
		if markErr := g.repo.MarkFailed(context.WithoutCancel(ctx), key, resp.Body, resp.Status); markErr != nil {
			logger.WithError(markErr).Warn("failed to store idempotency failure response")
		}
	default:
		if markErr := g.repo.MarkDone(context.WithoutCancel(ctx), key, resp.Body, resp.Status); markErr != nil {
			logger.WithError(markErr).Warn("failed to store idempotent success response")
		}
	}
	return resp, false, err
}

func replay(createErr error, record domain.IdempotencyRecord) (Response, error) {
	switch {
	case errors.Is(createErr, domain.ErrIdempotencyHashMismatch):
		return Response{}, ErrKeyReused
	case errors.Is(createErr, domain.ErrIdempotencyKeyAlreadyExists):
		switch {
		case record.Status.Terminal():
			return Response{Status: record.HTTPStatus, Body: append([]byte(nil), record.ResponseBody...)}, nil
		case record.Status == domain.IdempotencyStatusProcessing:
			return Response{}, ErrInProgress
		default:
			return Response{}, fmt.Errorf("unknown idempotency record status %q", record.Status)
		}
	default:
		return Response{}, fmt.Errorf("create idempotency record: %w", createErr)
	}
}

// HashRequest считает хэш запроса в пределах scope (метод, маршрут).
func HashRequest(scope string, request any) (string, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	return HashPayload(scope, data), nil
}

// HashPayload считает хэш уже сериализованного запроса.
func HashPayload(scope string, data []byte) string {
	payload := make([]byte, 0, len(scope)+1+len(data))
	payload = append(payload, scope...)
	payload = append(payload, ':')
	payload = append(payload, data...)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
