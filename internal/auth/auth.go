// Package auth authenticates callers of mutating endpoints by recovering the
// address that signed the request.
package auth

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"presale/internal/observability"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

const (
	// HeaderTimestamp is the unix timestamp (seconds) covered by the signature.
	HeaderTimestamp = "X-Timestamp"
	// HeaderSignature carries the hex-encoded 65-byte EIP-191 signature.
	HeaderSignature = "X-Signature"

	defaultMaxSkew = 2 * time.Minute
	defaultMaxBody = 1 << 20
	replayCapacity = 1 << 16
)

var (
	errMissingHeaders = errors.New("missing X-Timestamp or X-Signature header")
	errBadTimestamp   = errors.New("invalid timestamp")
	errStaleTimestamp = errors.New("timestamp outside allowed skew")
	errBadSignature   = errors.New("invalid signature")
	errReplayed       = errors.New("signature already used")
	errReplayGuard    = errors.New("replay guard is saturated, retry later")
)

type callerKey struct{}

// Verifier checks signed requests and puts the recovered signer into the
// request context.
type Verifier struct {
	maxSkew time.Duration
	maxBody int64
	metrics *observability.Metrics
	now     func() time.Time
	// -----
	mu     sync.Mutex
	replay *ristretto.Cache
}

func NewVerifier(maxSkew time.Duration, maxBody int64, metrics *observability.Metrics) (*Verifier, error) {
	if maxSkew <= 0 {
		maxSkew = defaultMaxSkew
	}
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	replay, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * replayCapacity,
		MaxCost:            replayCapacity,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create replay cache failed: %w", err)
	}
	return &Verifier{maxSkew: maxSkew, maxBody: maxBody, metrics: metrics, now: time.Now, replay: replay}, nil
}

func (v *Verifier) Close() { v.replay.Close() }

func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := v.verify(r)
		if err != nil {
			v.metrics.AuthFailures.WithLabelValues(cause(err)).Inc()
			logrus.WithError(err).WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			}).Warn("Rejected signed request")
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func (v *Verifier) verify(r *http.Request) (common.Address, error) {
	timestamp := strings.TrimSpace(r.Header.Get(HeaderTimestamp))
	signature := strings.TrimSpace(r.Header.Get(HeaderSignature))
	if timestamp == "" || signature == "" {
		return common.Address{}, errMissingHeaders
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", errBadTimestamp, err)
	}
	skew := v.now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.maxSkew {
		return common.Address{}, fmt.Errorf("%w of %s", errStaleTimestamp, v.maxSkew)
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, v.maxBody))
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read body: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil || len(sig) != 65 {
		return common.Address{}, fmt.Errorf("%w: expected 65 hex-encoded bytes", errBadSignature)
	}
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	// Only the low-s form is accepted, so (r, N-s) cannot pass as a new signature.
	sigR, sigS := new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64])
	if !ethcrypto.ValidateSignatureValues(sig[64], sigR, sigS, true) {
		return common.Address{}, fmt.Errorf("%w: non-canonical signature values", errBadSignature)
	}
	hash := accounts.TextHash(Payload(r.Method, r.URL.Path, timestamp, body))
	pub, err := ethcrypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", errBadSignature, err)
	}
	signer := ethcrypto.PubkeyToAddress(*pub)
	if err = v.markUsed(hex.EncodeToString(hash) + signer.Hex()); err != nil {
		return common.Address{}, err
	}
	return signer, nil
}

// markUsed records a signed message for twice the skew window, after which
// its timestamp is rejected anyway. A message the cache did not keep is
// refused.
func (v *Verifier) markUsed(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.replay.Get(key); ok {
		return errReplayed
	}
	if !v.replay.SetWithTTL(key, struct{}{}, 1, 2*v.maxSkew) {
		return errReplayGuard
	}
	v.replay.Wait()
	if _, ok := v.replay.Get(key); !ok {
		return errReplayGuard
	}
	return nil
}

// Payload is the message a client signs for a request.
func Payload(method, path, timestamp string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString(strings.ToUpper(method))
	b.WriteByte('\n')
	b.WriteString(path)
	b.WriteByte('\n')
	b.WriteString(timestamp)
	b.WriteByte('\n')
	b.Write(body)
	return b.Bytes()
}

// SignRequest returns the X-Signature value for a request signed by key.
func SignRequest(key *ecdsa.PrivateKey, method, path, timestamp string, body []byte) (string, error) {
	sig, err := ethcrypto.Sign(accounts.TextHash(Payload(method, path, timestamp, body)), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return hexutil.Encode(sig), nil
}

func WithCaller(ctx context.Context, caller common.Address) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// Caller returns the authenticated signer of the request.
func Caller(ctx context.Context) (common.Address, bool) {
	caller, ok := ctx.Value(callerKey{}).(common.Address)
	return caller, ok
}

func cause(err error) string {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, errMissingHeaders):
		return "missing_headers"
	case errors.Is(err, errBadTimestamp):
		return "bad_timestamp"
	case errors.Is(err, errStaleTimestamp):
		return "stale_timestamp"
	case errors.Is(err, errBadSignature):
		return "bad_signature"
	case errors.Is(err, errReplayed):
		return "replayed"
	case errors.Is(err, errReplayGuard):
		return "replay_guard"
	case errors.As(err, &tooLarge):
		return "body_too_large"
	default:
		return "body"
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, errReplayGuard):
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
