package cmd

import (
	"fmt"

	"github.com/pqminh27/nurbs/internal/version"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Print the version",
		Long:  "Print the nurbsctl version.",
		Usage: "nurbsctl version",
		Run: func(args []string) error {
			fmt.Fprintf(stdout, "nurbsctl version %s\n", version.String())
			return nil
		},
	})
}
