// Command tektond serves the floor-plan solvers over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	storeKind := flag.String("store", "memory", "store backend: memory or sqlite")
	dbPath := flag.String("db", "tekton.db", "sqlite database path")
	flag.Parse()

	handler, err := setupRoutes(context.Background(), *storeKind, *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("tektond listening on %s\n", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
