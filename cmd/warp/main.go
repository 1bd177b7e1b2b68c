// Command warp merges and validates layered configuration.
//
// Sources are read highest priority first: environment variables (with
// --env-prefix), then every --config file in the order given, then the
// --sqlite database.
//
//	warp merge -c local.yaml -c base.yaml
//	warp validate --schema schema.yaml -c app.yaml --env-prefix APP
//	warp watch --schema schema.yaml -c app.yaml --metrics-addr :9100
package main

import (
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
