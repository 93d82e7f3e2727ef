package acceptance

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/prperemyshlev/oauth-broker/internal/domain"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
	"github.com/prperemyshlev/oauth-broker/internal/repository"
)

// start runs GET /auth/{provider} and returns the state put into the consent redirect
func (s *Suite) start(provider, query string) string {
	resp := s.get("/auth/" + provider + "?" + query)
	s.Require().Equal(http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Require().True(strings.HasPrefix(location.String(), s.Provider.URL+"/authorize"))

	q := location.Query()
	s.Equal("code", q.Get("response_type"))
	s.Equal("test-client", q.Get("client_id"))
	s.Require().NotEmpty(q.Get("state"))

	return q.Get("state")
}

func (s *Suite) callback(provider, query string) *http.Response {
	return s.get("/auth/" + provider + "/callback?" + query)
}

func (s *Suite) errorBody(resp *http.Response) dto.ErrorResponse {
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var e dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(body, &e), string(body))
	return e
}

func (s *Suite) TestXeroConnectFlow() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	state := s.start("xero", "user_id="+userID)

	resp := s.callback("xero", url.Values{"code": {"c1"}, "state": {state}}.Encode())
	s.Require().Equal(http.StatusFound, resp.StatusCode)
	s.Equal("https://invnudge.com/setup-2?service=xero&status=connected", resp.Header.Get("Location"))

	var tenantID, tenantName, accessToken, refreshToken string
	err := s.Postgres.DB.QueryRow(
		`SELECT tenant_id, tenant_name, access_token, refresh_token FROM xero_users WHERE user_id = $1`, userID,
	).Scan(&tenantID, &tenantName, &accessToken, &refreshToken)
	s.Require().NoError(err)

	s.Equal("tenant-1", tenantID)
	s.Equal("Acme Ltd", tenantName)
	s.Equal("access-1", accessToken)
	s.Equal("refresh-1", refreshToken)
}

func (s *Suite) TestGoogleConnectFlowEchoesState() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	state := s.start("google", "user_id="+userID+"&user_hash=hash-1")

	resp := s.callback("google", url.Values{"code": {"c1"}, "state": {state}}.Encode())
	s.Require().Equal(http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal("google", location.Query().Get("service"))
	s.Equal("connected", location.Query().Get("status"))
	s.Equal(state, location.Query().Get("state"))

	link, err := repository.NewAccountLinkRepository(s.Postgres).GetByUserID(context.Background(), domain.ProviderGoogle, userID)
	s.Require().NoError(err)
	s.Equal("g-1", link.ProviderUserID)
	s.Equal("ann@gmail.com", link.Email)
	s.Equal("Ann", link.GivenName)
	s.Equal("https://img.example.com/a.png", link.Picture)
	s.Equal("access-1", link.AccessToken)
	s.Equal("id-1", link.IDToken)
}

func (s *Suite) TestCallbackForDeletedUser() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	state := s.start("xero", "user_id="+userID)

	_, err := s.Postgres.DB.Exec(`DELETE FROM users WHERE id = $1`, userID)
	s.Require().NoError(err)

	resp := s.callback("xero", url.Values{"code": {"c1"}, "state": {state}}.Encode())
	s.Equal(http.StatusInternalServerError, resp.StatusCode)
	s.Empty(resp.Header.Get("Location"))
}

func (s *Suite) TestCombinedStartParameter() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	s.start("google", url.Values{"state": {userID + "/hash-1"}}.Encode())
}

func (s *Suite) TestReconnectReplacesLink() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	for _, token := range []string{"access-1", "access-2"} {
		s.Provider.SetAccessToken(token)
		state := s.start("quickbooks", "user_id="+userID+"&user_hash=hash-1")

		resp := s.callback("quickbooks", url.Values{"code": {"c1"}, "state": {state}, "realmId": {"rlm1"}}.Encode())
		s.Require().Equal(http.StatusFound, resp.StatusCode)
		s.Equal("https://invnudge.com/setup-2?service=quickbooks&status=connected", resp.Header.Get("Location"))
	}

	var count int
	s.Require().NoError(s.Postgres.DB.QueryRow(`SELECT count(*) FROM quickbooks_users WHERE user_id = $1`, userID).Scan(&count))
	s.Equal(1, count)

	var accessToken, realmID string
	s.Require().NoError(s.Postgres.DB.QueryRow(
		`SELECT access_token, realm_id FROM quickbooks_users WHERE user_id = $1`, userID,
	).Scan(&accessToken, &realmID))
	s.Equal("access-2", accessToken)
	s.Equal("rlm1", realmID)
}

func (s *Suite) TestStateCannotBeReplayed() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	state := s.start("xero", "user_id="+userID)
	query := url.Values{"code": {"c1"}, "state": {state}}.Encode()

	s.Require().Equal(http.StatusFound, s.callback("xero", query).StatusCode)

	resp := s.callback("xero", query)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestStateIssuedForAnotherProvider() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	state := s.start("xero", "user_id="+userID)

	resp := s.callback("quickbooks", url.Values{"code": {"c1"}, "state": {state}, "realmId": {"rlm1"}}.Encode())
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestStartUnknownUser() {
	resp := s.get("/auth/xero?user_id=" + uuid.NewString())

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Empty(resp.Header.Get("Location"))
	s.Equal("User not found", s.errorBody(resp).Message)
}

func (s *Suite) TestStartWrongHash() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	resp := s.get("/auth/google?user_id=" + userID + "&user_hash=other")

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestTokenExchangeFailureStoresNothing() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")
	s.Provider.FailTokens(http.StatusUnauthorized)

	state := s.start("xero", "user_id="+userID)
	resp := s.callback("xero", url.Values{"code": {"c1"}, "state": {state}}.Encode())

	s.Equal(http.StatusBadGateway, resp.StatusCode)
	s.Empty(resp.Header.Get("Location"))

	var count int
	s.Require().NoError(s.Postgres.DB.QueryRowContext(context.Background(), `SELECT count(*) FROM xero_users`).Scan(&count))
	s.Zero(count)
}

func (s *Suite) TestQuickBooksCallbackRequiresRealm() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	state := s.start("quickbooks", "user_id="+userID+"&user_hash=hash-1")
	resp := s.callback("quickbooks", url.Values{"code": {"c1"}, "state": {state}}.Encode())

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestProviderErrorCallback() {
	resp := s.callback("google", "error=access_denied&state=anything")

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestUnconfiguredProvider() {
	resp := s.get("/auth/outlook?state=u1/h1")

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestRateLimitHeaders() {
	resp := s.get("/auth/xero?user_id=" + uuid.NewString())

	s.Equal("100", resp.Header.Get("X-RateLimit-Limit"))
	s.Equal("99", resp.Header.Get("X-RateLimit-Remaining"))
}
