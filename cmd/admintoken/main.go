// Command admintoken prepares admin credentials: it hashes a password for
// ADMIN_PASSWORD_HASH, or signs a bearer token directly for scripts.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"muin/internal/admin"
)

func main() {
	var (
		hashFlag    bool
		subjectFlag string
		ttlFlag     time.Duration
	)
	flag.BoolVar(&hashFlag, "hash", false, "read a password from stdin and print its bcrypt hash")
	flag.StringVar(&subjectFlag, "subject", "admin", "token subject recorded as the acting operator")
	flag.DurationVar(&ttlFlag, "ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if hashFlag {
		password, err := readLine()
		if err != nil {
			exitWithError(err)
		}
		hash, err := admin.HashPassword(password)
		if err != nil {
			exitWithError(err)
		}
		fmt.Println(hash)
		return
	}

	secret := strings.TrimSpace(os.Getenv("ADMIN_TOKEN_SECRET"))
	if secret == "" {
		exitWithError(errors.New("ADMIN_TOKEN_SECRET is required"))
	}
	auth, err := admin.NewAuthenticator(secret, "", subjectFlag, ttlFlag)
	if err != nil {
		exitWithError(err)
	}
	token, exp, err := auth.Sign(strings.TrimSpace(subjectFlag))
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.Format(time.RFC3339))
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
