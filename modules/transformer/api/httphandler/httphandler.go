package httphandler

import (
	"github.com/gaze-network/omniverse-transformer/common"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/usecase"
)

type HttpHandler struct {
	usecase *usecase.Usecase
	// adminToken guards the operator endpoints. They are not mounted when it is empty.
	adminToken string
}

func New(usecase *usecase.Usecase, adminToken string) *HttpHandler {
	return &HttpHandler{
		usecase:    usecase,
		adminToken: adminToken,
	}
}

type HttpResponse[T any] common.HttpResponse[T]
