package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid   = errors.New("stripe config invalid")
	ErrRequestFailed   = errors.New("stripe request failed")
	ErrResponseInvalid = errors.New("stripe response invalid")
)

const (
	defaultAPIBaseURL = "https://api.stripe.com"
	defaultTimeout    = 10 * time.Second
)

// Config Stripe 配置
type Config struct {
	SecretKey  string
	Currency   string
	APIBaseURL string
	TimeoutMS  int
}

// CreateIntentInput 创建 PaymentIntent 输入
type CreateIntentInput struct {
	Amount      string
	Currency    string
	OrderID     uint
	UserID      uint
	Description string
}

// CreateIntentResult 创建 PaymentIntent 返回
type CreateIntentResult struct {
	IntentID     string
	ClientSecret string
	Status       string
	Raw          map[string]interface{}
}

// ValidateConfig 校验配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	return nil
}

// CreatePaymentIntent 创建 Stripe PaymentIntent 并返回 client secret
func CreatePaymentIntent(ctx context.Context, cfg *Config, input CreateIntentInput) (*CreateIntentResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = strings.ToLower(strings.TrimSpace(cfg.Currency))
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrConfigInvalid)
	}
	minorAmount, err := toMinorAmount(input.Amount)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minorAmount, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	if description := strings.TrimSpace(input.Description); description != "" {
		form.Set("description", description)
	}
	if input.OrderID > 0 {
		form.Set("metadata[order_id]", strconv.FormatUint(uint64(input.OrderID), 10))
	}
	if input.UserID > 0 {
		form.Set("metadata[user_id]", strconv.FormatUint(uint64(input.UserID), 10))
	}

	respBody, statusCode, err := doFormRequest(ctx, cfg, "/v1/payment_intents", form)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create payment intent status %d", ErrResponseInvalid, statusCode)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	result := &CreateIntentResult{
		IntentID:     readString(raw, "id"),
		ClientSecret: readString(raw, "client_secret"),
		Status:       readString(raw, "status"),
		Raw:          raw,
	}
	if result.IntentID == "" || result.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing intent id or client secret", ErrResponseInvalid)
	}
	return result, nil
}

// toMinorAmount 金额转最小货币单位（按 2 位小数货币）
func toMinorAmount(amount string) (int64, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: amount is invalid", ErrConfigInvalid)
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrConfigInvalid)
	}
	return parsed.Shift(2).Round(0).IntPart(), nil
}

func doFormRequest(ctx context.Context, cfg *Config, path string, form url.Values) ([]byte, int, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	if typed, ok := value.(string); ok {
		return strings.TrimSpace(typed)
	}
	return ""
}
