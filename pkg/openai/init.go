package openai

import (
	"net/http"
	"net/url"

	"github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseUrl, apiKey, model, proxyAddr string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		cfg.BaseURL = baseUrl
	}

	transport := &http.Transport{}
	if proxyAddr != "" {
		if proxyURL, err := url.Parse(proxyAddr); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	// per-call timeouts come from the request context
	cfg.HTTPClient = &http.Client{Transport: transport}

	if model == "" {
		model = string(openai.TTSModel1)
	}
	return &Client{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *Client) Name() string { return "openai" }
