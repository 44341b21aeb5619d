package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"family-journal-go/internal/config"
	"family-journal-go/internal/transport/httpserver/handler"
	authmw "family-journal-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// The browser lands here from Notion's consent screen without a
		// bearer token; the state token carries the identity.
		r.Get("/notion/oauth/callback", handlers.NotionOAuthCallback)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/families/me", handlers.GetFamilyMe)
			r.Post("/families", handlers.CreateFamily)
			r.Patch("/families/me", handlers.UpdateFamily)
			r.Post("/families/leave", handlers.LeaveFamily)
			r.Get("/families/me/members", handlers.ListFamilyMembers)
			r.Patch("/families/me/members/{user_id}/label", handlers.SetMemberLabel)
			r.Delete("/families/me/members/{user_id}", handlers.RemoveFamilyMember)

			r.Post("/invitations", handlers.CreateInvitation)
			r.Get("/invitations", handlers.ListInvitations)
			r.Post("/invitations/accept", handlers.AcceptInvitation)
			r.Post("/invitations/{id}/cancel", handlers.CancelInvitation)

			r.Get("/children", handlers.ListChildren)
			r.Post("/children", handlers.CreateChild)
			r.Get("/children/{id}", handlers.GetChild)
			r.Patch("/children/{id}", handlers.UpdateChild)
			r.Delete("/children/{id}", handlers.DeleteChild)

			r.Get("/notes", handlers.ListNotes)
			r.Post("/notes", handlers.CreateNote)
			r.Get("/notes/{id}", handlers.GetNote)
			r.Patch("/notes/{id}", handlers.UpdateNote)
			r.Delete("/notes/{id}", handlers.DeleteNote)

			r.Get("/drawings", handlers.ListDrawings)
			r.Post("/drawings", handlers.CreateDrawing)
			r.Delete("/drawings/{id}", handlers.DeleteDrawing)

			r.Post("/ai/analyze-drawing", handlers.AnalyzeDrawing)
			r.Post("/ai/analyze-behavior", handlers.AnalyzeBehavior)
			r.Post("/ai/generate-summary", handlers.GenerateSummary)

			r.Post("/notion/oauth/state", handlers.NotionOAuthState)
			r.Get("/notion/connection", handlers.NotionStatus)
			r.Post("/notion/save", handlers.NotionSave)
			r.Delete("/notion/connection", handlers.NotionDisconnect)
		})
	})

	return r
}
