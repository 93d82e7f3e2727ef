package acceptance

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func (s *Suite) TestHealthEndpoint() {
	resp := s.get("/health")
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200")

	var body struct {
		Status    string            `json:"status"`
		Checks    map[string]string `json:"checks"`
		Providers []string          `json:"providers"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))

	s.Equal("pass", body.Status)
	s.Equal("pass", body.Checks["postgres"])
	s.Equal("pass", body.Checks["redis"])
	s.ElementsMatch([]string{"google", "xero", "quickbooks"}, body.Providers)
}

func (s *Suite) TestMetricsEndpoint() {
	s.get("/auth/xero?user_id=" + uuid.NewString())

	resp := s.get("/metrics")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.True(strings.Contains(string(body), "oauth_flow_starts"), "flow counter missing from /metrics")
}
