package contact

import (
	"net/http"
)

// Routes groups the contact handlers and the middleware that guards them.
type Routes struct {
	Submit  SubmitHandler
	Details DetailsHandler
	List    ListHandler
	Get     GetHandler

	// SubmitLimit throttles POST /contact per client.
	SubmitLimit func(http.Handler) http.Handler
	// Admin protects the /admin routes.
	Admin func(http.Handler) http.Handler
}

// Register mounts the contact routes on mux.
func Register(mux *http.ServeMux, rt Routes) {
	limit := rt.SubmitLimit
	if limit == nil {
		limit = passthrough
	}
	admin := rt.Admin
	if admin == nil {
		admin = passthrough
	}

	mux.Handle("POST /contact", limit(rt.Submit))
	mux.Handle("GET  /contact/details", rt.Details)
	mux.Handle("GET  /admin/submissions", admin(rt.List))
	mux.Handle("GET  /admin/submissions/", admin(rt.Get))
}

func passthrough(h http.Handler) http.Handler { return h }
