package main

import (
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/auth"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/config"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/crypto"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/httputil"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/mail"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/messages"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/quests"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/storage"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/store"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/users"
	"github.com/AdityaAryan-1408/FetchQuest-Backend/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Crypto key problems abort startup; they are never a per-request error.
	cipher, err := crypto.New([]byte(cfg.PhoneEncryptionKey))
	if err != nil {
		log.Fatalf("crypto: %v", err)
	}

	// DB
	db, err := sqlx.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	st := store.New(db)

	// External collaborators
	var mailer mail.Sender = mail.LogSender{}
	if cfg.SMTPHost != "" {
		mailer = &mail.SMTPSender{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.MailFrom,
		}
	}
	var photos storage.PhotoStore = storage.Disabled{}
	if cfg.SpacesBucket != "" {
		photos, err = storage.NewSpaces(cfg.SpacesKey, cfg.SpacesSecret, cfg.SpacesRegion, cfg.SpacesBucket, cfg.SpacesEndpoint)
		if err != nil {
			log.Fatalf("spaces: %v", err)
		}
	} else {
		log.Printf("object storage not configured; profile picture uploads disabled")
	}

	// Services
	jwtSvc := auth.NewJWT(cfg.JWTSecret, cfg.JWTLifetime)
	authSvc := auth.NewService(st, jwtSvc, mailer, cfg.ClientURL)
	questSvc := quests.NewService(st, cipher)
	userSvc := users.NewService(st, cipher, photos)
	msgSvc := messages.NewService(st)

	// WS hub per quest room
	roomHub := ws.NewHub(questSvc, userSvc, msgSvc)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Auth
	mux.Handle("POST /api/auth/register", httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
		return auth.HandleRegister(authSvc, w, r)
	}))
	mux.Handle("GET /api/auth/verify-email", httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
		return auth.HandleVerifyEmail(authSvc, w, r)
	}))
	mux.Handle("POST /api/auth/login", httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
		return auth.HandleLogin(authSvc, w, r)
	}))
	mux.Handle("POST /api/auth/forgot-password", httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
		return auth.HandleForgotPassword(authSvc, w, r)
	}))
	mux.Handle("POST /api/auth/reset-password", httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
		return auth.HandleResetPassword(authSvc, w, r)
	}))

	// Public feed
	mux.Handle("GET /api/requests", httputil.JSONHandler(func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleListOpen(questSvc, w, r)
	}))

	// Protected routes
	protected := httputil.Chain(
		httputil.JWTAuth(jwtSvc),
		httputil.RateLimit(100, time.Minute), // naive leaky bucket per IP
	)
	handle := func(pattern string, h func(http.ResponseWriter, *http.Request) error) {
		mux.Handle(pattern, protected(httputil.JSONHandler(h)))
	}

	handle("POST /api/requests", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleCreate(questSvc, w, r)
	})
	handle("GET /api/requests/my-requests", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleMyQuests(questSvc, w, r)
	})
	handle("GET /api/requests/my-runs", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleMyRuns(questSvc, w, r)
	})
	handle("PATCH /api/requests/{id}/accept", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleAccept(questSvc, w, r)
	})
	handle("PATCH /api/requests/{id}/cancel", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleCancel(questSvc, w, r)
	})
	handle("PATCH /api/requests/{id}/complete", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleComplete(questSvc, w, r)
	})
	handle("POST /api/requests/{id}/rate", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleRate(questSvc, w, r)
	})
	handle("GET /api/requests/{id}/contact", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleContact(questSvc, w, r)
	})
	handle("DELETE /api/requests/{id}", func(w http.ResponseWriter, r *http.Request) error {
		return quests.HandleDelete(questSvc, w, r)
	})

	handle("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) error {
		return users.HandleMe(userSvc, w, r)
	})
	handle("PATCH /api/users/update", func(w http.ResponseWriter, r *http.Request) error {
		return users.HandleUpdate(userSvc, w, r)
	})
	handle("PATCH /api/users/update-phone", func(w http.ResponseWriter, r *http.Request) error {
		return users.HandleUpdatePhone(userSvc, w, r)
	})
	handle("POST /api/users/upload", func(w http.ResponseWriter, r *http.Request) error {
		return users.HandleUpload(userSvc, w, r)
	})
	handle("DELETE /api/users/delete", func(w http.ResponseWriter, r *http.Request) error {
		return users.HandleDelete(userSvc, w, r)
	})

	// WS endpoint; JWT is checked inside the handler (query token)
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		ws.Handle(roomHub, jwtSvc, w, r)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<h1>FetchQuest API</h1>"))
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: httputil.CORS(cfg.AllowedOrigins)(mux),
	}

	log.Printf("listening on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
