package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comptrack/backend/domain"
)

func newGateway(t *testing.T, handler http.HandlerFunc) Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewTwilioGateway(TwilioConfig{
		AccountSID: "AC_test",
		AuthToken:  "token",
		FromNumber: "+15550000001",
		BaseURL:    srv.URL,
	}, nil)
}

func TestTwilioGateway_Send_Accepted(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC_test/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC_test", user)
		assert.Equal(t, "token", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "hello", r.PostForm.Get("Body"))
		assert.Equal(t, "+15550000001", r.PostForm.Get("From"))
		assert.Equal(t, "+15550000002", r.PostForm.Get("To"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"sid":    "SM123",
			"status": "queued",
			"to":     "+15550000002",
		})
	})

	ack, err := gw.Send(context.Background(), "hello", "+15550000002")
	require.NoError(t, err)
	assert.Equal(t, "SM123", ack.SID)
	assert.Equal(t, "queued", ack.Status)
	assert.Equal(t, "+15550000002", ack.To)
}

func TestTwilioGateway_Send_ProviderRejection(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    21211,
			"message": "The 'To' number is not a valid phone number.",
		})
	})

	_, err := gw.Send(context.Background(), "hello", "bogus")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeSendFailed))
	assert.Contains(t, err.Error(), "not a valid phone number")
}

func TestTwilioGateway_Send_OpaqueServerError(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := gw.Send(context.Background(), "hello", "+15550000002")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeSendFailed))
}

func TestTwilioGateway_Send_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	gw := NewTwilioGateway(TwilioConfig{
		AccountSID: "AC_test",
		AuthToken:  "token",
		FromNumber: "+15550000001",
		BaseURL:    srv.URL,
	}, nil)

	_, err := gw.Send(context.Background(), "hello", "+15550000002")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeSendFailed))
}
