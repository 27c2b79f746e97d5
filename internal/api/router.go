package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hitasa/salesshare/internal/api/handler"
	"github.com/hitasa/salesshare/internal/api/middleware"
	"github.com/hitasa/salesshare/internal/auth"
	"github.com/hitasa/salesshare/internal/company"
	"github.com/hitasa/salesshare/internal/license"
	"github.com/hitasa/salesshare/internal/project"
	"github.com/hitasa/salesshare/internal/search"
	"github.com/hitasa/salesshare/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger       handler.DBPinger
	Version        string
	AuthService    *auth.Service
	TeamService    *team.Service
	CompanyService *company.Service
	ProjectService *project.Service
	LicenseService *license.Service
	SearchProvider search.Provider
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.AuthService)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))

		teamHandler := handler.NewTeamHandler(deps.TeamService)
		r.Route("/teams", func(r chi.Router) {
			r.Post("/", teamHandler.Create)
			r.Get("/", teamHandler.List)
			r.Delete("/{id}", teamHandler.Delete)
			r.Get("/{id}/members", teamHandler.ListMembers)
			r.Delete("/{id}/members/{userId}", teamHandler.RemoveMember)
			r.Post("/{id}/invitations", teamHandler.Invite)
			r.Get("/{id}/invitations", teamHandler.ListInvitations)
		})

		invitationHandler := handler.NewInvitationHandler(deps.TeamService)
		r.Route("/invitations", func(r chi.Router) {
			r.Get("/", invitationHandler.List)
			r.Post("/{id}/accept", invitationHandler.Accept)
			r.Post("/{id}/decline", invitationHandler.Decline)
		})

		companyHandler := handler.NewCompanyHandler(deps.CompanyService)
		reviewHandler := handler.NewReviewHandler(deps.CompanyService)
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", companyHandler.List)
			r.Post("/", companyHandler.Create)
			r.Get("/{id}", companyHandler.Get)
			r.Patch("/{id}", companyHandler.Update)
			r.Post("/{id}/team", companyHandler.LinkTeam)
			r.Get("/{id}/reviews", reviewHandler.List)
			r.Post("/{id}/reviews", reviewHandler.Create)
			r.Get("/{id}/comments", reviewHandler.ListComments)
			r.Post("/{id}/comments", reviewHandler.CreateComment)
		})

		r.Route("/repository", func(r chi.Router) {
			r.Get("/", companyHandler.PersonalRepository)
			r.Get("/team", companyHandler.TeamRepository)
			r.Post("/{companyId}", companyHandler.AddToRepository)
			r.Delete("/{companyId}", companyHandler.RemoveFromRepository)
		})

		projectHandler := handler.NewProjectHandler(deps.ProjectService)
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.List)
			r.Get("/{id}", projectHandler.Get)
			r.Delete("/{id}", projectHandler.Delete)
			r.Post("/{id}/companies", projectHandler.AddCompany)
			r.Get("/{id}/companies", projectHandler.ListCompanies)
			r.Delete("/{id}/companies/{companyId}", projectHandler.RemoveCompany)
			r.Get("/{id}/available-companies", projectHandler.AvailableCompanies)
			r.Post("/{id}/notes", projectHandler.AddNote)
			r.Get("/{id}/notes", projectHandler.ListNotes)
		})

		licenseHandler := handler.NewLicenseHandler(deps.LicenseService)
		r.Get("/license", licenseHandler.Get)

		if deps.SearchProvider != nil {
			searchHandler := handler.NewSearchHandler(deps.SearchProvider)
			r.Get("/search", searchHandler.Search)
		}
	})

	return r
}
