// Command fars summarizes FARS yearly accident files and plots state
// incident maps. Run "fars serve" for the HTTP API.
package main

import "farsreport/internal/cli"

func main() {
	cli.Execute()
}
