// Command chaindb-demo exercises the chain database's import,
// query, and maintenance surface from the command line.
package main

import "github.com/ethlayer/chaindb/cmd/chaindb-demo/cmd"

func main() {
	cmd.Execute()
}
