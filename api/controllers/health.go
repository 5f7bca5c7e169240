package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/aureliajewels/aurelia-backend/api/responses"
	"github.com/aureliajewels/aurelia-backend/pkg/config"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
)

const envHeader = "X-Aurelia-Env"

// Pinger is anything that can confirm a live backing connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores. Non-nil pingers must answer within
// two seconds or the instance reports not ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]Pinger{"database": db, "redis": cache}
		status := map[string]string{"status": "ready"}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(ctx); err != nil {
				status[name] = "unreachable"
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
			status[name] = "ok"
		}
		responses.WriteSuccess(w, status)
	}
}
