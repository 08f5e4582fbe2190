package testutil

import (
	"net/http"

	id "rsu/pkg/domain"
	"rsu/pkg/requestcontext"
)

// WithOperator adds an authenticated operator to the request context.
// This simulates what the auth middleware would do.
func WithOperator(req *http.Request, operatorID id.OperatorID, role requestcontext.Role) *http.Request {
	return req.WithContext(requestcontext.WithOperator(req.Context(), operatorID, role))
}

// AsAdmin authenticates req as a fresh admin operator.
func AsAdmin(req *http.Request) *http.Request {
	return WithOperator(req, id.NewOperatorID(), requestcontext.RoleAdmin)
}

// AsAgent authenticates req as a fresh agent operator.
func AsAgent(req *http.Request) *http.Request {
	return WithOperator(req, id.NewOperatorID(), requestcontext.RoleAgent)
}
