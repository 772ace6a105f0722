// Package builderauth signs relayer requests with builder API credentials.
package builderauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/trebuchet-org/treb-relay/internal/domain/config"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

const (
	HeaderAPIKey     = "POLY_BUILDER_API_KEY"
	HeaderPassphrase = "POLY_BUILDER_PASSPHRASE"
	HeaderSignature  = "POLY_BUILDER_SIGNATURE"
	HeaderTimestamp  = "POLY_BUILDER_TIMESTAMP"
)

// Generator produces HMAC builder headers for authenticated relayer calls
type Generator struct {
	creds config.BuilderCredentials
	now   func() time.Time
	log   *slog.Logger
}

// NewGenerator creates a header generator. Incomplete credentials produce no headers.
func NewGenerator(creds config.BuilderCredentials, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Generator{
		creds: creds,
		now:   time.Now,
		log:   log.With("component", "builderauth"),
	}
}

// GenerateHeaders implements usecase.HeaderGenerator
func (g *Generator) GenerateHeaders(ctx context.Context, method, path string, body []byte) (http.Header, error) {
	if !g.creds.IsValid() {
		return nil, nil
	}

	secret, err := decodeSecret(g.creds.Secret)
	if err != nil {
		g.log.Warn("builder secret is not valid base64, sending request unauthenticated", "error", err)
		return nil, nil
	}

	timestamp := strconv.FormatInt(g.now().Unix(), 10)

	headers := http.Header{}
	headers.Set(HeaderAPIKey, g.creds.Key)
	headers.Set(HeaderPassphrase, g.creds.Passphrase)
	headers.Set(HeaderTimestamp, timestamp)
	headers.Set(HeaderSignature, Sign(secret, timestamp, method, path, body))
	return headers, nil
}

// Sign computes the url-safe base64 HMAC-SHA256 of timestamp+method+path+body
func Sign(secret []byte, timestamp, method, path string, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp + method + path))
	mac.Write(body)
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func decodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if b, err := base64.URLEncoding.DecodeString(secret); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(secret)
}

var _ usecase.HeaderGenerator = (*Generator)(nil)
