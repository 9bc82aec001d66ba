package route

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

func (s *DestinationRouteSuite) TestGetUsers() {
	code, body := s.do(http.MethodGet, "/users", nil)
	s.Equal(http.StatusOK, code)
	s.Equal("Users fetched successfully", body["message"])

	users := body["users"].([]interface{})
	s.Require().Len(users, 1)
	s.Equal("ana", users[0].(map[string]interface{})["username"])
}

func (s *DestinationRouteSuite) TestGetUsersWhenStoreFails() {
	s.sc.StoredError = errors.New("not authorized")

	resp := makeGetAllUsers(s.sc).Run(context.Background())
	s.Equal(http.StatusOK, resp.Status())

	code, body := s.do(http.MethodGet, "/users", nil)
	s.Equal(http.StatusOK, code)
	s.Equal([]interface{}{}, body["users"])
}
