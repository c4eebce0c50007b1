package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MomoClient verifies MoMo payments at checkout via the gateway's
// query-transaction endpoint. Capture and settlement stay on the gateway
// side; this client only confirms that a referenced payment succeeded.
type MomoClient struct {
	endpoint    string
	partnerCode string
	accessKey   string
	secretKey   string
	httpClient  *http.Client
}

// NewMomoClient returns a configured client, or nil when the gateway
// credentials are absent.
func NewMomoClient(endpoint, partnerCode, accessKey, secretKey string) *MomoClient {
	if partnerCode == "" || accessKey == "" || secretKey == "" {
		return nil
	}
	return &MomoClient{
		endpoint:    endpoint,
		partnerCode: partnerCode,
		accessKey:   accessKey,
		secretKey:   secretKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// MomoTransaction is the gateway's view of a payment.
type MomoTransaction struct {
	OrderID    string  `json:"orderId"`
	RequestID  string  `json:"requestId"`
	TransID    string  `json:"transId"`
	Amount     float64 `json:"amount"`
	ResultCode int     `json:"resultCode"`
	Message    string  `json:"message"`
}

type momoQueryRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	OrderID     string `json:"orderId"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

// QueryTransaction checks the payment referenced by orderID and returns
// ErrPaymentFailed unless the gateway reports success.
func (c *MomoClient) QueryTransaction(orderID, requestID string) (*MomoTransaction, error) {
	if requestID == "" {
		requestID = orderID
	}

	raw := fmt.Sprintf("accessKey=%s&orderId=%s&partnerCode=%s&requestId=%s",
		c.accessKey, orderID, c.partnerCode, requestID)
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(raw))

	payload, err := json.Marshal(momoQueryRequest{
		PartnerCode: c.partnerCode,
		RequestID:   requestID,
		OrderID:     orderID,
		Signature:   hex.EncodeToString(mac.Sum(nil)),
		Lang:        "en",
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(c.endpoint+"/v2/gateway/api/query", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("momo query: %w", err)
	}
	defer resp.Body.Close()

	var result MomoTransaction
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("momo query: decode response: %w", err)
	}

	if result.ResultCode != 0 {
		return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, result.Message)
	}
	return &result, nil
}
