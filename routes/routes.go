package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/property_listing_web/client"
	"github.com/dcode-github/property_listing_web/controllers"
	"github.com/dcode-github/property_listing_web/fallback"
	"github.com/dcode-github/property_listing_web/middleware"
	"github.com/dcode-github/property_listing_web/session"
	"github.com/dcode-github/property_listing_web/utils"
)

type Deps struct {
	Client      *client.Client
	Fetcher     *fallback.Fetcher
	Manager     *session.Manager
	Signer      *utils.SessionSigner
	CookieName  string
	RateLimiter *middleware.RateLimiter
	Metrics     http.Handler
}

func Routes(router *mux.Router, d Deps) {
	router.HandleFunc("/healthz", controllers.Healthz()).Methods("GET")
	if d.Metrics != nil {
		router.Handle("/metrics", d.Metrics).Methods("GET")
	}

	api := router.PathPrefix("/api").Subrouter()
	if d.RateLimiter != nil {
		api.Use(d.RateLimiter.Limit)
	}
	api.Use(middleware.Session(d.CookieName, d.Signer, d.Manager))

	// Public views
	api.HandleFunc("/home", controllers.Home(d.Fetcher)).Methods("GET")
	api.HandleFunc("/search", controllers.Search(d.Fetcher)).Methods("GET")
	api.HandleFunc("/properties/{id}", controllers.GetProperty()).Methods("GET")
	api.HandleFunc("/debug/status", controllers.DebugStatus(d.Client)).Methods("GET")

	// Auth routes
	api.HandleFunc("/auth/register", controllers.RegisterUser()).Methods("POST")
	api.HandleFunc("/auth/login", controllers.LoginUser()).Methods("POST")
	api.HandleFunc("/auth/logout", controllers.LogoutUser()).Methods("POST")
	api.HandleFunc("/auth/me", controllers.CurrentUser()).Methods("GET")

	// Routes that require a logged in user
	authenticated := api.NewRoute().Subrouter()
	authenticated.Use(middleware.RequireUser)

	authenticated.HandleFunc("/auth/profile", controllers.UpdateProfile()).Methods("PUT")

	authenticated.HandleFunc("/properties", controllers.CreateProperty()).Methods("POST")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty()).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.PatchProperty()).Methods("PATCH")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty()).Methods("DELETE")
	authenticated.HandleFunc("/properties/{id}/toggle-status", controllers.ToggleStatus()).Methods("PATCH")
	authenticated.HandleFunc("/my-properties", controllers.MyProperties()).Methods("GET")

	authenticated.HandleFunc("/favorites", controllers.GetFavorites()).Methods("GET")

	authenticated.HandleFunc("/messages", controllers.GetMessages()).Methods("GET")
	authenticated.HandleFunc("/messages", controllers.SendMessage()).Methods("POST")
}
