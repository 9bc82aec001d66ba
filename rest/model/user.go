package model

import (
	"github.com/evergreen-ci/utility"
	"github.com/trailmark/trailmark/model/user"
)

type APIDBUser struct {
	Id       *string `json:"_id"`
	Username *string `json:"username"`
	Email    *string `json:"email,omitempty"`
}

// BuildFromService converts from service level structs to an APIDBUser.
func (u *APIDBUser) BuildFromService(in user.DBUser) {
	u.Id = utility.ToStringPtr(in.Id.Hex())
	u.Username = utility.ToStringPtr(in.Username)
	u.Email = nil
	if in.Email != "" {
		u.Email = utility.ToStringPtr(in.Email)
	}
}
