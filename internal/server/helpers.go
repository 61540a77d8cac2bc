package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yuzumeet/meet-auth-gateway/internal/constants"
	"github.com/yuzumeet/meet-auth-gateway/internal/logging"
)

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func callbackURL(r *http.Request) string {
	return baseURL(r) + pathAuthCallback
}

func authorizationCode(r *http.Request) string {
	return r.URL.Query().Get(constants.QueryParamAuthorizationCode)
}

func state(r *http.Request) string {
	return r.URL.Query().Get(constants.QueryParamState)
}

func failureRedirectURL(failureURL, errorCode string) string {
	sep := "?"
	if u, err := url.Parse(failureURL); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	params := url.Values{}
	params.Set(constants.QueryParamError, errorCode)
	return failureURL + sep + params.Encode()
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromRequest(r).WithError(err).Error("failed to write response")
	}
}
