// Command authstub serves in-memory signup and login endpoints so the
// provisioner can be tried without the real forum service.
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/provisioner/internal/authstub"
)

func main() {
	cmd := &cobra.Command{
		Use:   "authstub",
		Short: "Serve fake /api/v1/signup and /api/v1/login endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			secret, _ := cmd.Flags().GetString("secret")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			stub := authstub.New(authstub.WithSecret([]byte(secret)), authstub.WithTTL(ttl))
			server := &http.Server{
				Addr:              addr,
				Handler:           stub.Handler(),
				ReadTimeout:       5 * time.Second,
				WriteTimeout:      5 * time.Second,
				IdleTimeout:       120 * time.Second,
				ReadHeaderTimeout: 2 * time.Second,
			}

			log.Printf("authstub listening on %s", addr)
			return server.ListenAndServe()
		},
	}

	cmd.Flags().String("addr", "127.0.0.1:8084", "Listen address")
	cmd.Flags().String("secret", "provisioner-authstub", "HS256 signing key for issued tokens")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Lifetime of issued tokens")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
