// ABOUTME: Entry point for the bi-admin CLI
// ABOUTME: Admin console for the BrandsInfo business directory

package main

import (
	"fmt"
	"os"

	"github.com/NikhilRakesh/Bi-Admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
