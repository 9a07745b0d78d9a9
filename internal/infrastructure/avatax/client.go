package avatax

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/infrastructure/telemetry"
)

// ProviderName labels AvaTax in logs and metrics
const ProviderName = "avatax"

const maxResponseBytes = 4 << 20

// Client implements tax.RatingClient against the AvaTax REST v2 API.
// Every Rate call opens its own session and sends exactly one request.
type Client struct {
	config      *Config
	credentials tax.CredentialProvider
	httpClient  *http.Client
	logger      *zap.Logger
	metrics     *telemetry.TaxMetrics
	now         func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records provider requests on tm
func WithMetrics(tm *telemetry.TaxMetrics) Option {
	return func(c *Client) {
		c.metrics = tm
	}
}

// WithClock sets the clock used for the transaction date
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient creates a new AvaTax client
func NewClient(config *Config, credentials tax.CredentialProvider, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, ErrMissingConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if credentials == nil {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		config:      config,
		credentials: credentials,
		httpClient: &http.Client{
			Timeout: config.timeout(),
		},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named(ProviderName)
	return c, nil
}

// Rate creates one SalesOrder transaction and returns its total tax.
func (c *Client) Rate(ctx context.Context, req tax.RatingRequest) (tax.RatingResult, error) {
	ctx, span := telemetry.StartClientSpan(ctx, "avatax.create_transaction",
		telemetry.KeyProvider.String(ProviderName),
		telemetry.KeyOrderID.String(req.OrderID()),
		telemetry.KeyLineAmount.String(req.LineAmount().String()),
	)
	defer span.End()

	start := time.Now()
	result, err := c.rate(ctx, req)

	errorKind := ""
	if pe, ok := asProviderError(err); ok {
		errorKind = pe.Kind.String()
	}
	c.metrics.RecordProviderRequest(ctx, ProviderName, errorKind, time.Since(start))

	if err != nil {
		telemetry.Fail(span, err, telemetry.KeyProviderError.String(errorKind))
		c.logger.Warn("AvaTax transaction failed",
			zap.String("order_id", req.OrderID()),
			zap.Error(err),
		)
		return tax.RatingResult{}, err
	}

	telemetry.Succeed(span, telemetry.KeyTaxAmount.String(result.TotalTax.Decimal.String()))
	return result, nil
}

func (c *Client) rate(ctx context.Context, req tax.RatingRequest) (tax.RatingResult, error) {
	sess, err := c.newSession(ctx)
	if err != nil {
		return tax.RatingResult{}, err
	}

	body, err := json.Marshal(c.buildTransaction(req))
	if err != nil {
		return tax.RatingResult{}, tax.NewProviderError(tax.ProviderErrorRequestFailed, "failed to marshal transaction", err)
	}

	respBody, err := sess.doRequest(ctx, http.MethodPost, createTransactionPath, body)
	if err != nil {
		return tax.RatingResult{}, err
	}

	var txn transactionModel
	if err := json.Unmarshal(respBody, &txn); err != nil {
		return tax.RatingResult{}, tax.NewProviderError(tax.ProviderErrorInvalidResponse, "failed to parse transaction", err)
	}

	c.logger.Debug("AvaTax transaction created",
		zap.String("order_id", req.OrderID()),
		zap.Int64("transaction_id", txn.ID),
		zap.String("transaction_code", txn.Code),
		zap.Bool("total_tax_present", txn.TotalTax.Valid),
	)

	return tax.RatingResult{TotalTax: txn.TotalTax}, nil
}

func (c *Client) buildTransaction(req tax.RatingRequest) createTransactionModel {
	addr := req.Address()
	return createTransactionModel{
		Type:         documentTypeSalesOrder,
		CompanyCode:  c.config.CompanyCode,
		Date:         c.now().Format("2006-01-02"),
		CustomerCode: c.config.CustomerCode,
		CurrencyCode: req.CurrencyCode(),
		Addresses: addressesModel{
			SingleLocation: addressLocation{
				Line1:      addr.Line1,
				Line2:      addr.Line2,
				City:       addr.City,
				Region:     addr.Region,
				PostalCode: addr.PostalCode,
				Country:    addr.Country,
			},
		},
		Lines: []lineItem{
			{Number: firstLineNumber, Amount: jsonDecimal(req.LineAmount())},
		},
	}
}

// session is the authenticated context of a single Rate call.
type session struct {
	client        *Client
	authorization string
	clientID      string
}

func (c *Client) newSession(ctx context.Context) (*session, error) {
	creds, err := c.credentials.Credentials(ctx)
	if err != nil {
		return nil, tax.NewProviderError(tax.ProviderErrorAuth, "failed to resolve credentials", err)
	}
	if creds.IsZero() {
		return nil, tax.NewProviderError(tax.ProviderErrorAuth, "credentials are empty", nil)
	}

	token := base64.StdEncoding.EncodeToString([]byte(creds.AccountID + ":" + creds.LicenseKey))
	return &session{
		client:        c,
		authorization: "Basic " + token,
		clientID: fmt.Sprintf("%s; %s; %s; %s; %s",
			c.config.AppName, c.config.AppVersion, clientLanguage, apiVersion, c.config.MachineName),
	}, nil
}

func (s *session) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	url := s.client.config.endpoint() + path

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, tax.NewProviderError(tax.ProviderErrorRequestFailed, "failed to create request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", s.authorization)
	req.Header.Set("X-Avalara-Client", s.clientID)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, tax.NewProviderError(tax.ProviderErrorUnavailable, "", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, tax.NewProviderError(tax.ProviderErrorUnavailable, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// responseError maps a non-2xx response to a ProviderError.
func responseError(status int, body []byte) *tax.ProviderError {
	pe := &tax.ProviderError{
		Kind:       tax.ProviderErrorRequestFailed,
		StatusCode: status,
	}

	var errResp errorResult
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		pe.Code = errResp.Error.Code
		pe.Message = errResp.Error.Message
		if pe.Message == "" && len(errResp.Error.Details) > 0 {
			pe.Message = errResp.Error.Details[0].Message
		}
	} else {
		pe.Message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden || pe.Code == authenticationException:
		pe.Kind = tax.ProviderErrorAuth
	case status >= http.StatusInternalServerError:
		pe.Kind = tax.ProviderErrorUnavailable
	}
	return pe
}

func asProviderError(err error) (*tax.ProviderError, bool) {
	var pe *tax.ProviderError
	ok := errors.As(err, &pe)
	return pe, ok
}
