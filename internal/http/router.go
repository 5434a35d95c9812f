package http

import (
	"net/http"

	"outreach/internal/auth"
	"outreach/internal/campaign"
	"outreach/internal/config"
	"outreach/internal/contact"
	"outreach/internal/draft"
	"outreach/internal/history"
	"outreach/internal/http/handler"
	mw "outreach/internal/http/middleware"
	"outreach/internal/mailer"
	"outreach/internal/profile"
	"outreach/internal/scheduler"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

// Deps collects everything the router wires together.
type Deps struct {
	Cfg config.Config
	DB  *gorm.DB
	JWT *auth.JWT

	Runner     *scheduler.Runner
	Generator  handler.EmailGenerator
	Researcher handler.Researcher
	Sender     mailer.Sender
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(d.Cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Cfg.CORSAllowedOrigins, d.Cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{DB: d.DB, JWT: d.JWT}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{}
	r.With(auth.RequireAuth(d.JWT)).Get("/me", me.Me)

	// cron entrypoint, guarded by its own token rather than a user JWT
	sch := &handler.SchedulerHandler{Runner: d.Runner, Token: d.Cfg.CronToken}
	r.Post("/scheduler/run", sch.Run)

	contactSvc := &contact.Service{DB: d.DB}
	campaignSvc := &campaign.Service{DB: d.DB}
	historySvc := &history.Service{DB: d.DB}
	profileSvc := &profile.Service{DB: d.DB}
	draftSvc := &draft.Service{DB: d.DB}

	contactH := &handler.ContactHandler{Svc: contactSvc}
	campaignH := &handler.CampaignHandler{Svc: campaignSvc}
	scheduleH := &handler.ScheduleHandler{Svc: campaignSvc}
	generateH := &handler.GenerateHandler{Gen: d.Generator}
	researchH := &handler.ResearchHandler{Researcher: d.Researcher}
	sendH := &handler.SendHandler{Sender: d.Sender, History: historySvc}
	historyH := &handler.HistoryHandler{Svc: historySvc}
	profileH := &handler.ProfileHandler{Svc: profileSvc}
	draftH := &handler.DraftHandler{Svc: draftSvc}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", contactH.List)
			r.Post("/", contactH.Create)
			r.Post("/import", contactH.Import)
			r.Patch("/{id}", contactH.Update)
			r.Delete("/{id}", contactH.Delete)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", campaignH.List)
			r.Post("/", campaignH.Create)
			r.Get("/{id}", campaignH.Get)
			r.Patch("/{id}", campaignH.Update)
			r.Delete("/{id}", campaignH.Delete)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleH.List)
			r.Post("/", scheduleH.Create)
			r.Patch("/{id}", scheduleH.Update)
			r.Delete("/{id}", scheduleH.Delete)
		})

		r.Post("/generate/email", generateH.Email)
		r.Post("/generate/subject", generateH.Subject)
		r.Post("/research", researchH.Research)

		r.Post("/emails/send", sendH.Send)
		r.Get("/emails/history", historyH.List)
		r.Post("/emails/history", historyH.Append)

		r.Get("/company-profile", profileH.Get)
		r.Post("/company-profile", profileH.Save)

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", draftH.List)
			r.Post("/", draftH.Save)
			r.Delete("/", draftH.Delete)
		})
	})

	return r
}
