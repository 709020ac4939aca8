package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/avaldez-dev/tillpoint/api/responses"
	pkgerrors "github.com/avaldez-dev/tillpoint/pkg/errors"
	"github.com/avaldez-dev/tillpoint/pkg/logger"
	pkgredis "github.com/avaldez-dev/tillpoint/pkg/redis"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// Settle commits money and stock; its replay window outlives a shift by a
	// wide margin.
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// routeTTL decides whether a route is replay-protected and for how long.
// Only the register operations that mutate durable state are covered; cart
// edits are safe to repeat because the cart is recoverable by GET.
func routeTTL(method, pattern string) (time.Duration, bool) {
	if method != http.MethodPost || !strings.HasPrefix(pattern, "/api/v1/registers/") {
		return 0, false
	}
	switch {
	case strings.HasSuffix(pattern, "/settle"):
		return criticalIdempotencyTTL, true
	case strings.HasSuffix(pattern, "/hold"), strings.HasSuffix(pattern, "/resume"):
		return defaultIdempotencyTTL, true
	}
	return 0, false
}

// storedResponse is what gets persisted in redis for a completed request.
// The body is base64 so the JSON wrapper stays valid whatever the handler
// wrote.
type storedResponse struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency suppresses duplicate submissions of settle, hold and resume.
// The first request with a given Idempotency-Key runs normally and its
// response is stored; later requests with the same key and body get the
// stored response back, while a same-key different-body request is rejected.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, protected := routeTTL(r.Method, routePattern(r))
			if !protected || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			digest := requestDigest(body)
			storeKey := store.IdempotencyKey(requestScope(r), key)

			done, err := replayStored(w, r, store, logg, storeKey, digest)
			if done || err != nil {
				return
			}

			rec := &replayRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			persistResponse(r.Context(), store, logg, storeKey, digest, rec, ttl)
		})
	}
}

// replayStored writes the stored response when one exists for storeKey. The
// bool result reports whether the request was fully handled here.
func replayStored(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, logg *logger.Logger, storeKey, digest string) (bool, error) {
	stored, err := store.Get(r.Context(), storeKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return true, err
	}
	if stored == "" {
		return false, nil
	}

	var record storedResponse
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return true, err
	}
	if record.RequestHash != digest {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return true, nil
	}

	if ct, ok := record.Headers["Content-Type"]; ok && ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
	return true, nil
}

func persistResponse(ctx context.Context, store pkgredis.IdempotencyStore, logg *logger.Logger, storeKey, digest string, rec *replayRecorder, ttl time.Duration) {
	record := storedResponse{
		Status:      rec.statusOrOK(),
		Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
		RequestHash: digest,
	}
	if ct := rec.Header().Get("Content-Type"); ct != "" {
		record.Headers = map[string]string{"Content-Type": ct}
	}

	payload, err := json.Marshal(record)
	if err != nil {
		if logg != nil {
			logg.Error(ctx, "marshal idempotency record", err)
		}
		return
	}
	if _, err := store.SetNX(ctx, storeKey, string(payload), ttl); err != nil && logg != nil {
		logg.Error(ctx, "persist idempotency record", err)
	}
}

// requestScope keys the stored response to register, method and path so the
// same Idempotency-Key is independent across registers and operations.
func requestScope(r *http.Request) string {
	return strings.Join([]string{RegisterIDFromContext(r.Context()), r.Method, r.URL.Path}, "|")
}

func requestDigest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func routePattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type replayRecorder struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *replayRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *replayRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *replayRecorder) statusOrOK() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
