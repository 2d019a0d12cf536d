package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/openmint-xyz/openmint/internal/adapter"
)

const (
	pinFileEndpoint = "/pinning/pinFileToIPFS"
	pinJSONEndpoint = "/pinning/pinJSONToIPFS"
)

// PinResult is the pinning service's response for a successful pin
type PinResult struct {
	IPFSHash  string `json:"ipfsHash"`
	PinSize   int64  `json:"pinSize"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
}

// PinMetadata is attached to a pin for bookkeeping on the pinning service
type PinMetadata struct {
	Name       string
	UploadedBy string
	Timestamp  time.Time
}

// Client relays content to the pinning service
//
//go:generate mockgen -source=client.go -destination=../../mocks/pinata.go -package=mocks -mock_names=Client=MockClient
type Client interface {
	// PinFile pins a file's content and returns its content hash
	PinFile(ctx context.Context, filename string, content io.Reader, meta PinMetadata) (*PinResult, error)

	// PinJSON pins a JSON document and returns its content hash
	PinJSON(ctx context.Context, content interface{}, meta PinMetadata) (*PinResult, error)

	// GatewayURL returns the public gateway URL for a content hash
	GatewayURL(hash string) string
}

type client struct {
	apiURL     string
	gatewayURL string
	apiKey     string
	secretKey  string
	http       adapter.HTTPClient
}

// NewClient creates a pinning service client
func NewClient(apiURL, gatewayURL, apiKey, secretKey string, httpClient adapter.HTTPClient) Client {
	return &client{
		apiURL:     apiURL,
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		secretKey:  secretKey,
		http:       httpClient,
	}
}

// pinataResponse is the wire shape of the pinning API response
type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (c *client) authHeaders() map[string]string {
	return map[string]string{
		"pinata_api_key":        c.apiKey,
		"pinata_secret_api_key": c.secretKey,
	}
}

// pinataMetadata builds the bookkeeping blob the pinning service stores
// alongside the pin
func pinataMetadata(meta PinMetadata) map[string]interface{} {
	uploadedBy := meta.UploadedBy
	if uploadedBy == "" {
		uploadedBy = "anonymous"
	}
	return map[string]interface{}{
		"name": meta.Name,
		"keyvalues": map[string]string{
			"uploadedBy": uploadedBy,
			"timestamp":  meta.Timestamp.UTC().Format(time.RFC3339),
		},
	}
}

// PinFile pins a file's content and returns its content hash
func (c *client) PinFile(ctx context.Context, filename string, content io.Reader, meta PinMetadata) (*PinResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}

	metadataJSON, err := json.Marshal(pinataMetadata(meta))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pin metadata: %w", err)
	}
	if err := writer.WriteField("pinataMetadata", string(metadataJSON)); err != nil {
		return nil, fmt.Errorf("failed to write pin metadata: %w", err)
	}
	if err := writer.WriteField("pinataOptions", `{"cidVersion":0}`); err != nil {
		return nil, fmt.Errorf("failed to write pin options: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	respBody, err := c.http.Post(ctx, c.apiURL+pinFileEndpoint, writer.FormDataContentType(), c.authHeaders(), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to pin file: %w", err)
	}

	return c.parseResult(respBody)
}

// PinJSON pins a JSON document and returns its content hash
func (c *client) PinJSON(ctx context.Context, content interface{}, meta PinMetadata) (*PinResult, error) {
	payload := map[string]interface{}{
		"pinataContent":  content,
		"pinataMetadata": pinataMetadata(meta),
		"pinataOptions":  map[string]int{"cidVersion": 0},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pin payload: %w", err)
	}

	respBody, err := c.http.Post(ctx, c.apiURL+pinJSONEndpoint, "application/json", c.authHeaders(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to pin JSON: %w", err)
	}

	return c.parseResult(respBody)
}

// GatewayURL returns the public gateway URL for a content hash
func (c *client) GatewayURL(hash string) string {
	return fmt.Sprintf("%s/ipfs/%s", c.gatewayURL, hash)
}

func (c *client) parseResult(respBody []byte) (*PinResult, error) {
	var resp pinataResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}
	if resp.IpfsHash == "" {
		return nil, fmt.Errorf("pin response missing content hash")
	}

	return &PinResult{
		IPFSHash:  resp.IpfsHash,
		PinSize:   resp.PinSize,
		Timestamp: resp.Timestamp,
		URL:       c.GatewayURL(resp.IpfsHash),
	}, nil
}
