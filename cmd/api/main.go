package main

import (
	"net/http"
	"os"
	"time"

	"peds-medsafety/internal/adapters/auth/identity"
	"peds-medsafety/internal/platform/logger"
	"peds-medsafety/internal/ports/auth"
	"peds-medsafety/internal/router"
)

// @title Pediatric Medication Safety API
// @version 1.0
// @description API de seguridad de medicación pediátrica: cálculo de dosis, verificación de seguridad y flujo de prescripciones.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	// Sin proveedor de identidad configurado el servicio arranca en modo dev
	// (headers X-Debug-User-ID / X-Debug-Role).
	var verifier auth.AuthVerifier
	if baseURL := os.Getenv("IDENTITY_BASE_URL"); baseURL != "" {
		client, err := identity.NewClient(identity.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("IDENTITY_API_KEY"),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("identity client")
		}
		verifier = identity.NewVerifier(client)
		log.Info().Str("identity", baseURL).Msg("token verification enabled")
	} else {
		log.Warn().Msg("no identity provider configured, running in dev mode")
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Logger:       &log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
