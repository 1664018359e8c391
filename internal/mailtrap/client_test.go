package mailtrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innosearch/contact-sync/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		baseURL: server.URL,
		token:   "test-token",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func TestNewClient(t *testing.T) {
	cfg := config.MailtrapConfig{
		Token:          "test-token",
		BaseURL:        "https://send.api.mailtrap.io/",
		TimeoutSeconds: 30,
	}

	client := NewClient(cfg)

	assert.NotNil(t, client)
	assert.Equal(t, "test-token", client.token)
	assert.Equal(t, "https://send.api.mailtrap.io", client.baseURL, "trailing slash trimmed")
}

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/send", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var mail Mail
		require.NoError(t, json.NewDecoder(r.Body).Decode(&mail))
		assert.Equal(t, "sender@innosearch.ai", mail.From.Email)
		require.Len(t, mail.To, 1)
		assert.Equal(t, "jane@example.com", mail.To[0].Email)
		assert.Equal(t, "template-123", mail.TemplateUUID)
		assert.Equal(t, "Jane", mail.Variables["name"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(SendResponse{
			Success:    true,
			MessageIDs: []string{"msg-1"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)

	resp, err := client.Send(context.Background(), &Mail{
		From:         Address{Email: "sender@innosearch.ai", Name: "Innosearch"},
		To:           []Address{{Email: "jane@example.com"}},
		TemplateUUID: "template-123",
		Variables:    map[string]interface{}{"name": "Jane"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"msg-1"}, resp.MessageIDs)
}

func TestSend_MultiRecipient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var mail Mail
		require.NoError(t, json.NewDecoder(r.Body).Decode(&mail))
		assert.Len(t, mail.To, 3)
		assert.Nil(t, mail.Variables, "batch sends carry no variables")

		json.NewEncoder(w).Encode(SendResponse{Success: true})
	}))
	defer server.Close()

	client := newTestClient(server)

	resp, err := client.Send(context.Background(), &Mail{
		From: Address{Email: "sender@innosearch.ai"},
		To: []Address{
			{Email: "a@example.com"},
			{Email: "b@example.com"},
			{Email: "c@example.com"},
		},
		TemplateUUID: "template-123",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestSend_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(SendResponse{
			Success: false,
			Errors:  []string{"Unauthorized"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)

	resp, err := client.Send(context.Background(), &Mail{
		From:         Address{Email: "sender@innosearch.ai"},
		To:           []Address{{Email: "jane@example.com"}},
		TemplateUUID: "template-123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	require.NotNil(t, resp, "response body returned for caller inspection")
	assert.False(t, resp.Success)
}

func TestSend_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately, so the dial fails

	client := newTestClient(server)

	_, err := client.Send(context.Background(), &Mail{
		From:         Address{Email: "sender@innosearch.ai"},
		To:           []Address{{Email: "jane@example.com"}},
		TemplateUUID: "template-123",
	})
	require.Error(t, err)
}
