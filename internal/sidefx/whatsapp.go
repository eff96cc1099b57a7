package sidefx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WhatsAppGateway talks to the self-hosted WhatsApp bridge.
type WhatsAppGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewWhatsAppGateway constructs a gateway client. An empty baseURL
// disables delivery.
func NewWhatsAppGateway(baseURL, token string) *WhatsAppGateway {
	return &WhatsAppGateway{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether a bridge is configured.
func (g *WhatsAppGateway) Enabled() bool {
	return g != nil && g.baseURL != ""
}

type sendDocumentRequest struct {
	Phone    string `json:"phone"`
	Filename string `json:"filename"`
	Caption  string `json:"caption,omitempty"`
	Document string `json:"document"`
}

// SendDocument delivers a PDF to a phone number.
func (g *WhatsAppGateway) SendDocument(ctx context.Context, phone, filename, caption string, pdf []byte) error {
	if !g.Enabled() {
		return fmt.Errorf("whatsapp gateway not configured")
	}

	body, err := json.Marshal(sendDocumentRequest{
		Phone:    phone,
		Filename: filename,
		Caption:  caption,
		Document: base64.StdEncoding.EncodeToString(pdf),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/send/document", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp send: gateway returned %s", resp.Status)
	}
	return nil
}
