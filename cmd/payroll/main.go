/*
main.go - Application entry point

PURPOSE:
  Command-line front end for the payroll engine. Every subcommand shares
  one configuration and one SQLite store.

COMMANDS:
  serve     HTTP API with graceful shutdown, optional payday scheduler
  payday    Run payday once for a date and print a summary
  seed      Enroll fake employees with activity

CONFIGURATION:
  Environment (see config/config.go), optionally from a .env file.
  Flags override the environment:
    --db       SQLite database path (":memory:" for a throwaway database)
    --env      development | production
    --workers  Employees paid concurrently during a run

EXAMPLES:
  payroll seed --employees 30
  payroll payday --date 2025-03-14
  payroll serve --addr :3000 --scheduler

SEE ALSO:
  - api/server.go: Router configuration
  - payroll/payday.go: Engine
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
