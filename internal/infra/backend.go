package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SuperAJ1/CAPSTONE-sub000/internal/apierror"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/config"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/dto"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/metrics"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/model"
	"github.com/SuperAJ1/CAPSTONE-sub000/internal/reconcile"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	msgConnectFailed   = "Failed to connect to server"
	msgInvalidResponse = "Invalid response from server"
	msgUnavailable     = "Server unavailable, try again shortly"
)

// BackendPaths are the endpoint paths below the backend base URL.
type BackendPaths struct {
	Products          string
	Lookup            string
	Purchase          string
	Transactions      string
	UpdateTransaction string
}

// BackendClient talks to the PHP POS backend. Every call goes through the
// circuit breaker; only transport failures count against it. Nothing is
// retried.
type BackendClient struct {
	baseURL    string
	paths      BackendPaths
	token      string
	httpClient *http.Client
	cb         *CircuitBreaker
	cache      LookupCache
}

// NewBackendClient builds the client from config. cache may be nil.
func NewBackendClient(cfg *config.Config, cb *CircuitBreaker, cache LookupCache) *BackendClient {
	return &BackendClient{
		baseURL: strings.TrimRight(cfg.BackendURL, "/"),
		paths: BackendPaths{
			Products:          cfg.ProductsPath,
			Lookup:            cfg.LookupPath,
			Purchase:          cfg.PurchasePath,
			Transactions:      cfg.TransactionsPath,
			UpdateTransaction: cfg.UpdateTransactionPath,
		},
		token: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout:   cfg.BackendTimeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cb:    cb,
		cache: cache,
	}
}

// ── Products ─────────────────────────────────────────────────────────────────

// SearchProducts lists products matching term (all products when empty).
func (c *BackendClient) SearchProducts(ctx context.Context, term string) ([]model.Product, error) {
	q := url.Values{}
	if term = strings.TrimSpace(term); term != "" {
		q.Set("search", term)
	}
	env, status, err := c.do(ctx, "products", http.MethodGet, c.paths.Products, q, nil)
	if err != nil {
		return nil, err
	}
	if !ok(status, env) {
		return nil, apierror.Business(messageOr(env, "Failed to load products"))
	}
	if !env.HasData() {
		return []model.Product{}, nil
	}
	var payload []dto.ProductPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, apierror.Network(msgInvalidResponse, fmt.Errorf("backend: decode products: %w", err))
	}
	out := make([]model.Product, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.ToModel())
	}
	return out, nil
}

// LookupProduct resolves a scanned key (product id or QR payload).
func (c *BackendClient) LookupProduct(ctx context.Context, key string) (model.Product, error) {
	if c.cache != nil {
		if p, hit := c.cache.Get(ctx, key); hit {
			log.Debug().Str("key", key).Msg("lookup cache hit")
			return p, nil
		}
	}

	q := url.Values{}
	q.Set("qr_code_data", key)
	env, status, err := c.do(ctx, "lookup", http.MethodGet, c.paths.Lookup, q, nil)
	if err != nil {
		return model.Product{}, err
	}
	if !ok(status, env) || !env.HasData() {
		return model.Product{}, apierror.NotFound(messageOr(env, "Product not found"))
	}
	var payload dto.ProductPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return model.Product{}, apierror.Network(msgInvalidResponse, fmt.Errorf("backend: decode product: %w", err))
	}
	p := payload.ToModel()
	if p.ID == "" {
		return model.Product{}, apierror.NotFound("Product not found")
	}
	if c.cache != nil {
		c.cache.Set(ctx, key, p)
	}
	return p, nil
}

// ── Sales ────────────────────────────────────────────────────────────────────

// SubmitPurchase records a sale. A non-success answer is a business error
// carrying the backend message.
func (c *BackendClient) SubmitPurchase(ctx context.Context, req dto.PurchaseRequest) (dto.PurchaseResult, error) {
	env, status, err := c.do(ctx, "purchase", http.MethodPost, c.paths.Purchase, nil, req)
	if err != nil {
		return dto.PurchaseResult{}, err
	}
	if !ok(status, env) {
		return dto.PurchaseResult{}, apierror.Business(messageOr(env, "Purchase failed"))
	}
	ids := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	c.invalidate(ctx, ids)

	var res dto.PurchaseResult
	if env.HasData() {
		// data is optional and loosely shaped; a mismatch is not a failed sale
		if err := json.Unmarshal(env.Data, &res); err != nil {
			log.Warn().Err(err).Msg("purchase: unexpected data shape")
		}
	}
	return res, nil
}

// FetchTransactions returns the sales recorded for userID.
func (c *BackendClient) FetchTransactions(ctx context.Context, userID string) ([]model.Sale, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	env, status, err := c.do(ctx, "transactions", http.MethodGet, c.paths.Transactions, q, nil)
	if err != nil {
		return nil, err
	}
	if !ok(status, env) {
		return nil, apierror.Business(messageOr(env, "Failed to load transactions"))
	}
	if !env.HasData() {
		return []model.Sale{}, nil
	}
	var payload []dto.SalePayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, apierror.Network(msgInvalidResponse, fmt.Errorf("backend: decode transactions: %w", err))
	}
	out := make([]model.Sale, 0, len(payload))
	for _, s := range payload {
		out = append(out, s.ToModel())
	}
	return out, nil
}

// UpdateTransaction submits an edited sale. Backend rejections are returned
// as an unsuccessful UpdateResult, not as an error, so the caller can look
// for an underpayment in them.
func (c *BackendClient) UpdateTransaction(ctx context.Context, req reconcile.UpdateRequest) (reconcile.UpdateResult, error) {
	env, status, err := c.do(ctx, "update_transaction", http.MethodPost, c.paths.UpdateTransaction, nil, dto.NewUpdateTransactionRequest(req))
	if err != nil {
		return reconcile.UpdateResult{}, err
	}
	var data dto.UpdateTransactionData
	if env.HasData() {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			log.Warn().Err(err).Str("transaction_id", req.TransactionID).Msg("update: unexpected data shape")
		}
	}
	res := data.ToResult(env)
	res.Success = ok(status, env)
	if res.Success {
		ids := make([]string, 0, len(req.Items))
		for _, it := range req.Items {
			ids = append(ids, it.ProductID)
		}
		c.invalidate(ctx, ids)
	}
	return res, nil
}

// invalidate drops cached lookups of products whose stock just changed.
func (c *BackendClient) invalidate(ctx context.Context, productIDs []string) {
	if c.cache == nil || len(productIDs) == 0 {
		return
	}
	c.cache.Invalidate(ctx, productIDs...)
}

// ── Transport ────────────────────────────────────────────────────────────────

// do sends one request and decodes the envelope out of the (possibly noisy)
// body. The returned error is always an *apierror.Error of kind network.
func (c *BackendClient) do(ctx context.Context, endpoint, method, path string, query url.Values, body any) (dto.Envelope, int, error) {
	start := time.Now()
	env, status, err := c.roundTrip(ctx, method, path, query, body)

	result := "ok"
	if err != nil {
		result = "error"
		log.Warn().Err(err).Str("endpoint", endpoint).Str("method", method).Msg("backend call failed")
	} else if !ok(status, env) {
		result = "rejected"
		log.Info().Str("endpoint", endpoint).Int("status", status).Str("message", env.Message).Msg("backend rejected request")
	}
	metrics.BackendRequestDuration.WithLabelValues(endpoint, result).Observe(time.Since(start).Seconds())
	return env, status, err
}

func (c *BackendClient) roundTrip(ctx context.Context, method, path string, query url.Values, body any) (dto.Envelope, int, error) {
	var env dto.Envelope

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return env, 0, apierror.Network(msgConnectFailed, fmt.Errorf("backend: marshal payload: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return env, 0, apierror.Network(msgConnectFailed, fmt.Errorf("backend: create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	var (
		status int
		raw    []byte
	)
	err = c.cb.Execute(func() error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("backend: unreachable: %w", err)
		}
		defer resp.Body.Close()
		status = resp.StatusCode
		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("backend: read body: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrCircuitOpen) {
		return env, 0, apierror.Network(msgUnavailable, err)
	}
	if err != nil {
		return env, 0, apierror.Network(msgConnectFailed, err)
	}

	js, err := ExtractJSON(raw)
	if err != nil {
		return env, status, apierror.Network(msgInvalidResponse, fmt.Errorf("backend: %s %s returned %d: %w", method, path, status, err))
	}
	if err := json.Unmarshal(js, &env); err != nil {
		return env, status, apierror.Network(msgInvalidResponse, fmt.Errorf("backend: decode envelope: %w", err))
	}
	return env, status, nil
}

func ok(status int, env dto.Envelope) bool {
	return status >= 200 && status < 300 && env.OK()
}

func messageOr(env dto.Envelope, fallback string) string {
	if m := strings.TrimSpace(env.Message); m != "" {
		return m
	}
	return fallback
}
