// Command wordsync is the operator CLI for a local vocabulary store: it can
// serve, drain the sync queue once, inspect pending operations and migrate
// the remote ledger.
package main

import "github.com/heartmarshall/wordsync-backend/cmd/wordsync/cmd"

func main() {
	cmd.Execute()
}
