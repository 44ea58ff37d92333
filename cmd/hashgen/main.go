// Command hashgen produces an ADMIN_PASSWORD_HASH value in the structured
// PBKDF2 format. Reads the password from stdin so it never appears in shell
// history or process listings.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	pkgauth "github.com/Sami-Ke/otlex-docs/pkg/auth"
)

func main() {
	fmt.Fprint(os.Stderr, "Password: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
		os.Exit(1)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		fmt.Fprintln(os.Stderr, "password cannot be empty")
		os.Exit(1)
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
