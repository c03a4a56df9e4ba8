package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "volunteerhub/docs"
	"volunteerhub/internal/delivery/http/controllers"
	"volunteerhub/internal/delivery/http/middleware"
	"volunteerhub/internal/domain"
)

// RouterConfig carries everything the router needs: the controllers, the
// socket gateway, the token verifier for the auth middleware, and the
// allowed CORS origins.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string

	Auth          *controllers.AuthController
	Events        *controllers.EventController
	Committees    *controllers.CommitteeController
	Chat          *controllers.ChatController
	Announcements *controllers.AnnouncementController
	Payments      *controllers.PaymentController
	Socket        http.Handler
}

// NewRouter initializes the HTTP router with all application routes. Every
// route except signup, login, and the gateway webhook sits behind the Bearer
// auth middleware; the socket handshake does its own token check.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", cfg.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Events
	mux.HandleFunc("POST /events", auth(cfg.Events.CreateEvent))
	mux.HandleFunc("POST /events/join", auth(cfg.Events.JoinEvent))
	mux.HandleFunc("GET /events/me", auth(cfg.Events.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(cfg.Events.GetEvent))
	mux.HandleFunc("DELETE /events/{eventID}/participants/{userID}", auth(cfg.Events.RemoveParticipant))
	mux.HandleFunc("GET /events/{eventID}/volunteers", auth(cfg.Events.Roster))

	// Committees
	mux.HandleFunc("POST /committees", auth(cfg.Committees.CreateCommittee))
	mux.HandleFunc("GET /events/{eventID}/committees", auth(cfg.Committees.ListCommittees))
	mux.HandleFunc("PUT /committees/{committeeID}/subhead", auth(cfg.Committees.AssignSubHead))
	mux.HandleFunc("POST /committees/join", auth(cfg.Committees.JoinCommittees))
	mux.HandleFunc("DELETE /committees/{committeeID}/volunteers/{userID}", auth(cfg.Committees.RemoveVolunteer))
	mux.HandleFunc("DELETE /committees/{committeeID}", auth(cfg.Committees.DeleteCommittee))

	// Chat
	mux.HandleFunc("POST /chat/messages", auth(cfg.Chat.SendMessage))
	mux.HandleFunc("GET /chat/{eventID}/{chatType}", auth(cfg.Chat.History))

	// Announcements
	mux.HandleFunc("POST /announcements", auth(cfg.Announcements.Create))
	mux.HandleFunc("GET /announcements/{eventID}", auth(cfg.Announcements.List))
	mux.HandleFunc("PUT /announcements/{announcementID}/pin", auth(cfg.Announcements.TogglePin))
	mux.HandleFunc("DELETE /announcements/{announcementID}", auth(cfg.Announcements.Delete))

	// Payments. The webhook is unauthenticated: the gateway signs it instead.
	mux.HandleFunc("POST /payments/orders", auth(cfg.Payments.CreateOrder))
	mux.HandleFunc("POST /payments/verify", auth(cfg.Payments.VerifyPayment))
	mux.HandleFunc("POST /payments/webhook", cfg.Payments.Webhook)
	mux.HandleFunc("GET /payments/status/{announcementID}", auth(cfg.Payments.PaymentStatus))

	// Live channels. The handshake carries its own token.
	mux.Handle("GET /ws", cfg.Socket)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
