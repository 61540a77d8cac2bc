package server

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yuzumeet/meet-auth-gateway/internal/auth"
	"github.com/yuzumeet/meet-auth-gateway/internal/config"
	"github.com/yuzumeet/meet-auth-gateway/internal/constants"
	"github.com/yuzumeet/meet-auth-gateway/internal/hub"
	"github.com/yuzumeet/meet-auth-gateway/internal/logging"
	"github.com/yuzumeet/meet-auth-gateway/internal/session"
)

const (
	pathAuthGoogle   = "/auth/google"
	pathAuthCallback = "/auth/callback"
	pathAuthStatus   = "/auth/status"
	pathAuthUser     = "/auth/user"
	pathAuthLogout   = "/auth/logout"

	// Shared device state channel (glasses/wrist/ring and browser tabs).
	pathStateChannel = "/ws"
)

func newAPI(authn *auth.Authenticator, proj *auth.Projector, conf *config.Config,
	st session.Store, stateHub *hub.Hub, promRegisterer prometheus.Registerer) http.Handler {

	loginsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Outcomes of OAuth2 callback exchanges",
	}, []string{"result"})
	promRegisterer.MustRegister(loginsTotal)

	mux := http.NewServeMux()

	mux.HandleFunc(pathAuthGoogle, func(w http.ResponseWriter, r *http.Request) {
		l := logging.FromRequest(r)

		authURL, state, err := authn.BeginAuthorization(callbackURL(r))
		if err != nil {
			l.WithError(err).Error("failed to begin authorization")
			http.Error(w, "Failed to begin authorization", http.StatusInternalServerError)
			return
		}

		setState(w, state, conf.Sessions.SecureCookies)
		http.Redirect(w, r, authURL, http.StatusSeeOther)
	})

	mux.HandleFunc(pathAuthCallback, func(w http.ResponseWriter, r *http.Request) {
		l := logging.FromRequest(r)

		redirectFailure := func(errorCode string) {
			loginsTotal.WithLabelValues("failure").Inc()
			http.Redirect(w, r, failureRedirectURL(conf.Frontend.FailureURL, errorCode), http.StatusSeeOther)
		}

		if _, err := getAndDeleteStateAndCheckCSRF(w, r); err != nil {
			l.WithError(err).Error("CSRF failed")
			redirectFailure(constants.ErrorCodeCSRFFailed)
			return
		}

		code := authorizationCode(r)
		if code == "" {
			l.Error("callback received without authorization code")
			redirectFailure(constants.ErrorCodeNoCode)
			return
		}

		id, s, err := authn.CompleteAuthorization(r.Context(), code, callbackURL(r))
		if err != nil {
			var exchangeErr *auth.ExchangeError
			var profileErr *auth.ProfileFetchError
			switch {
			case errors.As(err, &exchangeErr):
				l.WithError(err).Error("failed to exchange authorization code for tokens")
				redirectFailure(constants.ErrorCodeExchange)
			case errors.As(err, &profileErr):
				l.WithError(err).Error("failed to fetch user profile")
				redirectFailure(constants.ErrorCodeProfileFetch)
			default:
				l.WithError(err).Error("failed to complete authorization")
				redirectFailure(constants.ErrorCodeInternalError)
			}
			return
		}

		setSessionCookie(w, &conf.Sessions, id)
		loginsTotal.WithLabelValues("success").Inc()
		l.WithField("user", s.User.Email).Info("user authenticated")

		http.Redirect(w, r, conf.Frontend.SuccessURL, http.StatusSeeOther)
	})

	mux.HandleFunc(pathAuthStatus, func(w http.ResponseWriter, r *http.Request) {
		status, err := proj.Status(r.Context(), sessionID(r, &conf.Sessions))
		if err != nil {
			logging.FromRequest(r).WithError(err).Error("failed to read session")
			http.Error(w, "Failed to read session", http.StatusInternalServerError)
			return
		}
		respondJSON(w, r, http.StatusOK, status)
	})

	mux.HandleFunc(pathAuthUser, func(w http.ResponseWriter, r *http.Request) {
		user, err := proj.User(r.Context(), sessionID(r, &conf.Sessions))
		switch {
		case errors.Is(err, auth.ErrUnauthorized):
			respondJSON(w, r, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		case err != nil:
			logging.FromRequest(r).WithError(err).Error("failed to read session")
			http.Error(w, "Failed to read session", http.StatusInternalServerError)
		default:
			respondJSON(w, r, http.StatusOK, user)
		}
	})

	mux.HandleFunc(pathAuthLogout, func(w http.ResponseWriter, r *http.Request) {
		if err := authn.Logout(r.Context(), sessionID(r, &conf.Sessions)); err != nil {
			logging.FromRequest(r).WithError(err).Error("failed to destroy session")
			http.Error(w, "Failed to destroy session", http.StatusInternalServerError)
			return
		}
		clearSessionCookie(w, &conf.Sessions)
		respondJSON(w, r, http.StatusOK, map[string]any{"success": true})
	})

	mux.HandleFunc(pathStateChannel, func(w http.ResponseWriter, r *http.Request) {
		l := logging.FromRequest(r)

		// No cookie means not logged in, regardless of store health.
		id := sessionID(r, &conf.Sessions)
		if id == "" {
			respondJSON(w, r, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}

		s, ok, err := st.Get(r.Context(), id)
		if err != nil {
			l.WithError(err).Error("failed to read session")
			http.Error(w, "Failed to read session", http.StatusInternalServerError)
			return
		}
		if !ok || !s.Authenticated() {
			respondJSON(w, r, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
			return
		}

		// Keep tokens live for the duration of the connection; a refresh
		// failure is not fatal to the channel, the session TTL still bounds
		// the lifetime.
		if _, err := authn.RefreshSession(r.Context(), id, s); err != nil {
			l.WithError(err).Warn("failed to refresh tokens")
		}

		stateHub.ServeHTTP(w, r)
	})

	return mux
}
