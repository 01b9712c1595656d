package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	config "github.com/jimbobirecode/teemail-backend/configs"
	"github.com/google/uuid"
)

// LinkClient talks to the hosted payment-link API of the processor. Only
// opaque correlation ids come back; settlement status arrives later via
// the processor's status callback.
type LinkClient struct {
	APIBase     string
	APIKey      string
	RedirectURL string
	httpClient  *http.Client
}

func NewLinkClient() *LinkClient {
	return &LinkClient{
		APIBase:     config.Config("PAYMENT_API_BASE_URL"),
		APIKey:      config.Config("PAYMENT_API_KEY"),
		RedirectURL: config.Config("PAYMENT_REDIRECT_URL"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type linkRequest struct {
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	Reference      string `json:"reference"`
	RedirectURL    string `json:"redirect_url,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
}

type linkResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (c *LinkClient) CreatePaymentLink(amount float64, currency, reference string) (string, string, error) {
	payload := linkRequest{
		Amount:         fmt.Sprintf("%.2f", amount),
		Currency:       currency,
		Reference:      reference,
		RedirectURL:    c.RedirectURL,
		IdempotencyKey: uuid.New().String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/v1/payment_links", c.APIBase), bytes.NewBuffer(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("failed to create payment link: %s", string(respBody))
	}

	var link linkResponse
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return "", "", err
	}
	if link.ID == "" || link.URL == "" {
		return "", "", fmt.Errorf("payment link response missing id or url")
	}
	return link.ID, link.URL, nil
}
