package channelengine

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/config"
)

// Client exposes the ChannelEngine merchant API operations used by the
// application.
type Client interface {
	UpdateOffer(ctx context.Context, update OfferUpdate) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	apiKey     string
}

// NewClient builds a ChannelEngine API client using the provided configuration
// values. BaseURL is the tenant root, e.g. https://acme.channelengine.net.
func NewClient(cfg config.ChannelEngineConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/api/v2", base)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		apiKey:     cfg.APIKey,
	}
}

// OfferUpdate carries one price change for a merchant product.
type OfferUpdate struct {
	SKU   string
	Price float64
}

// offerPayload mirrors ChannelEngine's PascalCase offer schema.
type offerPayload struct {
	MerchantProductNo string  `json:"MerchantProductNo"`
	Price             float64 `json:"Price"`
}

// apiResponse is ChannelEngine's standard response envelope.
type apiResponse struct {
	Success    bool   `json:"Success"`
	Message    string `json:"Message"`
	StatusCode int    `json:"StatusCode"`
}

// UpdateOffer pushes a new selling price for one SKU.
func (c *APIClient) UpdateOffer(ctx context.Context, update OfferUpdate) error {
	payload := []offerPayload{{
		MerchantProductNo: update.SKU,
		Price:             update.Price,
	}}

	result := new(apiResponse)
	apiErr := new(apiResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("apikey", c.apiKey).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Put("/offers")
	if err != nil {
		return fmt.Errorf("update channelengine offer: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Message
			if apiErr.StatusCode != 0 {
				code = apiErr.StatusCode
			}
		}
		return fmt.Errorf("channelengine api error: code=%d, message=%s", code, message)
	}

	if !result.Success {
		return fmt.Errorf("channelengine rejected offer update: %s", result.Message)
	}

	return nil
}
