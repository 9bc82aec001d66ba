package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/trailmark/trailmark/rest/data"
	"github.com/trailmark/trailmark/rest/model"
)

////////////////////////////////////////////////////////////////////////
//
// GET /users

type usersGetHandler struct {
	sc data.Connector
}

func makeGetAllUsers(sc data.Connector) gimlet.RouteHandler {
	return &usersGetHandler{sc: sc}
}

func (h *usersGetHandler) Factory() gimlet.RouteHandler {
	return &usersGetHandler{sc: h.sc}
}

func (h *usersGetHandler) Parse(ctx context.Context, r *http.Request) error {
	return nil
}

// Run responds with every user. Users that could not be read are reported
// as an empty list rather than an error.
func (h *usersGetHandler) Run(ctx context.Context) gimlet.Responder {
	users := h.sc.FindAllUsers(ctx)

	apiUsers := make([]model.APIDBUser, 0, len(users))
	for _, u := range users {
		apiUser := model.APIDBUser{}
		apiUser.BuildFromService(u)
		apiUsers = append(apiUsers, apiUser)
	}

	return successResponse(http.StatusOK, "Users fetched successfully", "users", apiUsers)
}
