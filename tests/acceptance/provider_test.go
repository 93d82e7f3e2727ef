package acceptance

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// fakeProvider stands in for the token and profile endpoints of every provider
type fakeProvider struct {
	*httptest.Server

	mu          sync.Mutex
	accessToken string
	tokenStatus int
}

func newFakeProvider() *fakeProvider {
	f := &fakeProvider{}
	f.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", f.token)
	mux.HandleFunc("/google/profile", jsonHandler(`{"id":"g-1","email":"ann@gmail.com","given_name":"Ann","family_name":"Bee","picture":"https://img.example.com/a.png"}`))
	mux.HandleFunc("/xero/profile", jsonHandler(`[{"tenantId":"tenant-1","tenantName":"Acme Ltd"}]`))
	mux.HandleFunc("/quickbooks/profile", jsonHandler(`{"email":"ann@acme.com","givenName":"Ann","familyName":"Bee"}`))

	f.Server = httptest.NewServer(mux)
	return f
}

// Reset restores the default token response
func (f *fakeProvider) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accessToken = "access-1"
	f.tokenStatus = http.StatusOK
}

func (f *fakeProvider) SetAccessToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accessToken = token
}

func (f *fakeProvider) FailTokens(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenStatus = status
}

func (f *fakeProvider) token(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status, token := f.tokenStatus, f.accessToken
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		return
	}
	_, _ = w.Write([]byte(`{"access_token":"` + token + `","refresh_token":"refresh-1","id_token":"id-1","token_type":"Bearer","expires_in":3600}`))
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}
