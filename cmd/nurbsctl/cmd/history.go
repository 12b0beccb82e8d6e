package cmd

import (
	"fmt"

	"github.com/pqminh27/nurbs/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "history",
		Short: "List stored results",
		Long: `List the most recent results kept in the result store, newest first.
The store path comes from the geometry file or NURBS_STORE_PATH.`,
		Usage: "nurbsctl history [-config file] [-limit n]",
		Run:   runHistory,
	})
}

func runHistory(args []string) error {
	fs, cfgPath := newFlagSet("history")
	limit := fs.Int("limit", 20, "maximum number of results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	e, err := setup(ctx, *cfgPath, "history")
	if err != nil {
		return err
	}
	defer e.close()

	if e.store == nil {
		return fmt.Errorf("no result store configured (set store.path or %s)", config.EnvStorePath)
	}

	records, err := e.store.List(ctx, *limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(stdout, "no results stored")
		return nil
	}

	fmt.Fprintf(stdout, "%-6s %-20s %-8s %-20s %s\n", "ID", "NAME", "KIND", "CREATED", "PARAMS")
	for _, r := range records {
		fmt.Fprintf(stdout, "%-6d %-20s %-8s %-20s %s\n",
			r.ID, r.Name, r.Kind, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Params)
	}
	return nil
}
