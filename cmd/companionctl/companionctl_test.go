package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/search", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "acme", req["query"])
		assert.Equal(t, "alias", req["kind"])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"matches":[],"count":0}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, runSearch(srv.URL, "acme", 5, "alias", &out))
	assert.Contains(t, out.String(), "matches")
}

func TestRunSearch_EmptyQuery(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, runSearch("http://unused", "", 5, "alias", &out))
}

func TestRunCreateCustomer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/customers", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"Acme Corp"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, runCreateCustomer(srv.URL, "Acme Corp", []string{"Acme"}, &out))
	assert.Contains(t, out.String(), "Acme Corp")
}

func TestRunDeleteCustomer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found","code":404}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := runDeleteCustomer(srv.URL, "00000000-0000-0000-0000-000000000000", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
