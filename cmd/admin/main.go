// Command admin is the operator CLI for the gym membership backend.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
