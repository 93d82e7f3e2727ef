package acceptance

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/prperemyshlev/oauth-broker/internal/dto"
)

func (s *Suite) statusBody(resp *http.Response) dto.StatusResponse {
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	var status dto.StatusResponse
	s.Require().NoError(json.Unmarshal(body, &status), string(body))
	return status
}

func (s *Suite) TestStatusByUserID() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	resp := s.get("/auth/status?user_id=" + userID)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	status := s.statusBody(resp)
	s.Require().NotNil(status.Name)
	s.Equal("Test User", *status.Name)
	s.Equal("onboarding", *status.Status)
	s.Nil(status.EmailProvider)
	s.Empty(status.ID)
}

func (s *Suite) TestStatusBySessionID() {
	userID := uuid.NewString()
	s.createUser(userID, "hash-1")

	resp := s.get("/auth/status?session_id=hash-1")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	status := s.statusBody(resp)
	s.Equal(userID, status.ID)
	s.Equal("hash-1", status.UserHash)
}

func (s *Suite) TestStatusErrors() {
	s.Equal(http.StatusBadRequest, s.get("/auth/status?user_id=not-a-uuid").StatusCode)
	s.Equal(http.StatusBadRequest, s.get("/auth/status").StatusCode)
	s.Equal(http.StatusNotFound, s.get("/auth/status?user_id="+uuid.NewString()).StatusCode)
	s.Equal(http.StatusNotFound, s.get("/auth/status?session_id=missing").StatusCode)
}
