package susi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadWasif/susi-linux/internal/fault"
)

func TestAskDecodesFlatReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/susi/chat.json", r.URL.Path)
		assert.Equal(t, "hello", r.URL.Query().Get("q"))
		assert.Equal(t, "en_US", r.URL.Query().Get("language"))
		w.Write([]byte(`{"answer": "hi there"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	c.UseAPIEndpoint(srv.URL)

	r, err := c.Ask("hello", "en_US")
	require.NoError(t, err)
	require.NotNil(t, r.Answer)
	assert.Equal(t, "hi there", *r.Answer)
}

func TestAskDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answers": [{"answer": "enveloped", "volume": "30"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	c.UseAPIEndpoint(srv.URL)

	r, err := c.Ask("hello", "")
	require.NoError(t, err)
	require.NotNil(t, r.Answer)
	assert.Equal(t, "enveloped", *r.Answer)
	require.NotNil(t, r.Volume)
}

func TestAskUnreachableIsConnectionFault(t *testing.T) {
	c := NewClient(&http.Client{})
	c.UseAPIEndpoint("http://127.0.0.1:1") // nothing listens there

	_, err := c.Ask("hello", "")
	require.Error(t, err)
	assert.Equal(t, fault.ConnectionError, fault.KindOf(err))
}

func TestAskServerErrorIsNotConnectionFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	c.UseAPIEndpoint(srv.URL)

	_, err := c.Ask("hello", "")
	require.Error(t, err)
	assert.Equal(t, fault.Unclassified, fault.KindOf(err))
}

func TestAskCarriesLocationAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "13.4", q.Get("longitude"))
		assert.Equal(t, "52.5", q.Get("latitude"))
		assert.Equal(t, "Germany", q.Get("country_name"))
		assert.Equal(t, "tok", q.Get("access_token"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	c.UseAPIEndpoint(srv.URL)
	c.UpdateLocation(13.4, 52.5, "Germany", "DE")
	c.accessToken = "tok"

	_, err := c.Ask("where am I", "")
	require.NoError(t, err)
}

func TestSignInStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aaa/login.json", r.URL.Path)
		w.Write([]byte(`{"access_token": "secret"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client())
	c.UseAPIEndpoint(srv.URL)

	require.NoError(t, c.SignIn("a@b.c", "pw"))
	assert.Equal(t, "secret", c.accessToken)
}
