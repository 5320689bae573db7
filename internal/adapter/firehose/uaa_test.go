package firehose

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/agent-coverage/internal/testutil/fakeservices"
)

func TestFetchUAAToken(t *testing.T) {
	uaaURL := fakeservices.RunFakeUAA(t, "myusername", "mypassword")

	t.Run("should return the token in header form", func(t *testing.T) {
		token, err := FetchUAAToken(context.Background(), http.DefaultClient, uaaURL, "myusername", "mypassword")

		require.NoError(t, err)
		assert.Equal(t, "bearer good-token", token)
	})

	t.Run("should reject bad credentials", func(t *testing.T) {
		_, err := FetchUAAToken(context.Background(), http.DefaultClient, uaaURL, "myusername", "wrong")

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("should report server errors with status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := FetchUAAToken(context.Background(), http.DefaultClient, srv.URL, "u", "p")

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	})

	t.Run("should reject responses without a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"token_type":"bearer"}`))
		}))
		defer srv.Close()

		_, err := FetchUAAToken(context.Background(), http.DefaultClient, srv.URL, "u", "p")

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("should send client credentials grant", func(t *testing.T) {
		var grant string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			grant = r.PostForm.Get("grant_type")
			w.Write([]byte(`{"access_token":"x","token_type":"bearer"}`))
		}))
		defer srv.Close()

		_, err := FetchUAAToken(context.Background(), http.DefaultClient, srv.URL+"/", "u", "p")

		require.NoError(t, err)
		assert.Equal(t, "client_credentials", grant)
	})
}
