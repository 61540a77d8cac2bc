package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/yuzumeet/meet-auth-gateway/internal/auth"
	"github.com/yuzumeet/meet-auth-gateway/internal/config"
	"github.com/yuzumeet/meet-auth-gateway/internal/hub"
	"github.com/yuzumeet/meet-auth-gateway/internal/provider"
	"github.com/yuzumeet/meet-auth-gateway/internal/session"
)

func New(conf *config.Config, p provider.Interface) *http.Server {
	st := newSessionStore(&conf.Sessions)
	authn := auth.NewAuthenticator(p, st)
	proj := auth.NewProjector(st)
	stateHub := hub.New(conf.Frontend.CORS)
	api := newAPI(authn, proj, conf, st, stateHub, prometheus.DefaultRegisterer)
	return newServer(conf, api, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func newSessionStore(conf *config.SessionConfig) session.Store {
	switch conf.Store {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		return session.NewRedisStore(client, conf.TTLDuration())
	default:
		return session.NewMemoryStore(conf.TTLDuration())
	}
}
