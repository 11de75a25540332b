// Package gateway speaks the NicePay billing-key protocol: form-encoded
// HTTPS requests signed with a SHA-256 SignData over the request fields
// and the merchant key.
package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tradementor/pkg/utils"
)

const (
	resultCodeChargeOK        = "3001"
	resultCodeBillingKeyOK    = "F100"
	resultCodeBillingKeyAgain = "F103" // already registered; treated as success
	resultCodeBillingKeyDelOK = "F101"
)

type Config struct {
	BaseURL     string
	MID         string
	MerchantKey string
	Timeout     time.Duration
}

type BillingKeyRequest struct {
	TxTID     string // gateway auth response TID
	AuthToken string
	OrderID   string
}

type BillingKeyResult struct {
	BillingKey   string
	CardName     string
	CardNoMasked string
}

type ChargeRequest struct {
	BillingKey string
	OrderID    string
	GoodsName  string
	Amount     int64
}

type ChargeResult struct {
	TID           string
	AuthCode      string
	AuthDate      string
	ResultCode    string
	ResultMessage string
	Amount        int64
}

type Client interface {
	RegisterBillingKey(ctx context.Context, req BillingKeyRequest) (*BillingKeyResult, error)
	DeleteBillingKey(ctx context.Context, billingKey, orderID string) error
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// Error is a gateway-level failure. It unwraps to utils.ErrGateway so
// the HTTP layer can map it to 502.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s (%s)", e.Message, e.Code)
}

func (e *Error) Unwrap() error { return utils.ErrGateway }

type nicePayClient struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &nicePayClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	ResultCode string `json:"ResultCode"`
	ResultMsg  string `json:"ResultMsg"`
	TID        string `json:"TID"`
	BID        string `json:"BID"`
	AuthCode   string `json:"AuthCode"`
	AuthDate   string `json:"AuthDate"`
	CardName   string `json:"CardName"`
	CardNo     string `json:"CardNo"`
	Amt        string `json:"Amt"`
}

func (c *nicePayClient) RegisterBillingKey(ctx context.Context, req BillingKeyRequest) (*BillingKeyResult, error) {
	ediDate := ediDate()
	// SignData: SHA256(TID + MID + EdiDate + MerchantKey)
	sign := signData(req.TxTID, c.cfg.MID, ediDate, c.cfg.MerchantKey)

	form := url.Values{
		"TID":       {req.TxTID},
		"MID":       {c.cfg.MID},
		"AuthToken": {req.AuthToken},
		"Moid":      {req.OrderID},
		"EdiDate":   {ediDate},
		"SignData":  {sign},
	}

	resp, err := c.post(ctx, "/billing/key", form)
	if err != nil {
		return nil, err
	}
	if resp.ResultCode != resultCodeBillingKeyOK && resp.ResultCode != resultCodeBillingKeyAgain {
		return nil, &Error{Code: resp.ResultCode, Message: resp.ResultMsg}
	}

	return &BillingKeyResult{
		BillingKey:   resp.BID,
		CardName:     resp.CardName,
		CardNoMasked: resp.CardNo,
	}, nil
}

func (c *nicePayClient) DeleteBillingKey(ctx context.Context, billingKey, orderID string) error {
	ediDate := ediDate()
	// SignData: SHA256(MID + EdiDate + Moid + BID + MerchantKey)
	sign := signData(c.cfg.MID, ediDate, orderID, billingKey, c.cfg.MerchantKey)

	form := url.Values{
		"BID":      {billingKey},
		"MID":      {c.cfg.MID},
		"Moid":     {orderID},
		"EdiDate":  {ediDate},
		"SignData": {sign},
	}

	resp, err := c.post(ctx, "/billing/key/delete", form)
	if err != nil {
		return err
	}
	if resp.ResultCode != resultCodeBillingKeyDelOK {
		return &Error{Code: resp.ResultCode, Message: resp.ResultMsg}
	}
	return nil
}

func (c *nicePayClient) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	amt := strconv.FormatInt(req.Amount, 10)
	ediDate := ediDate()
	// SignData: SHA256(MID + EdiDate + Moid + Amt + BID + MerchantKey)
	sign := signData(c.cfg.MID, ediDate, req.OrderID, amt, req.BillingKey, c.cfg.MerchantKey)

	form := url.Values{
		"BID":          {req.BillingKey},
		"MID":          {c.cfg.MID},
		"Moid":         {req.OrderID},
		"Amt":          {amt},
		"GoodsName":    {req.GoodsName},
		"EdiDate":      {ediDate},
		"SignData":     {sign},
		"CardInterest": {"0"},
		"CardQuota":    {"00"},
	}

	resp, err := c.post(ctx, "/billing/payment", form)
	if err != nil {
		return nil, err
	}
	if resp.ResultCode != resultCodeChargeOK {
		return nil, &Error{Code: resp.ResultCode, Message: resp.ResultMsg}
	}

	paid, _ := strconv.ParseInt(resp.Amt, 10, 64)
	return &ChargeResult{
		TID:           resp.TID,
		AuthCode:      resp.AuthCode,
		AuthDate:      resp.AuthDate,
		ResultCode:    resp.ResultCode,
		ResultMessage: resp.ResultMsg,
		Amount:        paid,
	}, nil
}

func (c *nicePayClient) post(ctx context.Context, path string, form url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Code: "CONNECTION_FAILED", Message: err.Error()}
	}
	defer httpResp.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &Error{Code: "INVALID_RESPONSE", Message: err.Error()}
	}
	return &resp, nil
}

// signData is the hex SHA-256 of the concatenated params.
func signData(params ...string) string {
	h := sha256.Sum256([]byte(strings.Join(params, "")))
	return hex.EncodeToString(h[:])
}

func ediDate() string {
	return time.Now().Format("20060102150405")
}

// GenerateBillingKeyOrderID is the order number used when issuing or
// revoking a billing key.
func GenerateBillingKeyOrderID() string {
	return "BK-" + uuid.New().String()
}

// GenerateRecurringOrderID derives a unique per-attempt order number
// from the subscription id and the wall clock.
func GenerateRecurringOrderID(subscriptionID uuid.UUID) string {
	return fmt.Sprintf("SUB-%s-%s",
		strings.Split(subscriptionID.String(), "-")[0],
		time.Now().Format("20060102150405"))
}
