// genhash imprime el hash bcrypt para AUTH_ADMINPASSWORDHASH.
//
//	go run ./cmd/genhash 'mi-contraseña'
package main

import (
	"fmt"
	"os"

	"pet-store-console/internal/adapters/auth/jwtauth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "uso: genhash <contraseña>")
		os.Exit(2)
	}
	h, err := jwtauth.HashPassword(os.Args[1])
	if err != nil {
		panic(err)
	}
	fmt.Println(h)
}
