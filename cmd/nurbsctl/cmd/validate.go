package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pqminh27/nurbs/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Check geometry files against the schema",
		Long: `Validate one or more geometry files against the configuration schema
and build the geometry they describe, reporting every problem found.`,
		Usage: "nurbsctl validate <file>...",
		Run:   runValidate,
	})
}

func runValidate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one file is required\n\nUsage: nurbsctl validate <file>...")
	}

	failed := 0
	for _, path := range args {
		if err := validateFile(path); err != nil {
			failed++
			var verr *config.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(stdout, "%s: invalid\n", path)
				for _, v := range verr.Violations {
					fmt.Fprintf(stdout, "  - %s\n", v)
				}
				continue
			}
			fmt.Fprintf(stdout, "%s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(stdout, "%s: ok\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
	}
	return nil
}

func validateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := config.Parse(path, data); err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if _, err := cfg.Curve.Build(); err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	if _, err := cfg.Surface.Build(); err != nil {
		return fmt.Errorf("surface: %w", err)
	}
	if _, err := cfg.Surface.BuildGrid(); err != nil {
		return fmt.Errorf("surface grid: %w", err)
	}
	return nil
}
