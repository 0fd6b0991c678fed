// keygen writes an RSA key pair for JWT_PRIVATE_KEY and JWT_PUBLIC_KEY:
// a PKCS8 private key PEM and a PKIX public key PEM.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"hotel-booking-account/backend/internal/security"
)

func main() {
	dir := flag.String("out", "keys", "Directory to write private.pem and public.pem to")
	bits := flag.Int("bits", 2048, "RSA key size in bits")
	force := flag.Bool("force", false, "Overwrite existing key files")
	flag.Parse()

	if *bits < 2048 {
		fmt.Fprintln(os.Stderr, "keygen: -bits must be at least 2048")
		os.Exit(1)
	}

	privPath := filepath.Join(*dir, "private.pem")
	pubPath := filepath.Join(*dir, "public.pem")
	if !*force {
		for _, p := range []string{privPath, pubPath} {
			if _, err := os.Stat(p); err == nil {
				fmt.Fprintf(os.Stderr, "keygen: %s exists; pass -force to overwrite\n", p)
				os.Exit(1)
			}
		}
	}

	privPEM, pubPEM, err := security.GenerateKeyPair(*bits)
	if err != nil {
		fmt.Fprintln(os.Stderr, "keygen:", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*dir, 0o700); err != nil {
		fmt.Fprintln(os.Stderr, "keygen:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		fmt.Fprintln(os.Stderr, "keygen:", err)
		os.Exit(1)
	}
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "keygen:", err)
		os.Exit(1)
	}

	fmt.Printf("JWT_PRIVATE_KEY=%s\nJWT_PUBLIC_KEY=%s\n", privPath, pubPath)
}
