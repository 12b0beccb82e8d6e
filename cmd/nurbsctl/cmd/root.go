// Package cmd implements the nurbsctl commands.
//
// A root command dispatches to subcommands (curve, surface, preview,
// validate, history, version). Every subcommand parses its own flags.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pqminh27/nurbs/internal/version"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "nurbsctl",
	Short: "nurbsctl - evaluate and tessellate rational curves and surfaces",
	Long: `nurbsctl evaluates the NURBS geometry described in a YAML file:
it samples rational curves, tessellates sectorial surfaces into vertex
buffers and renders previews.

Use "nurbsctl <command> --help" for more information about a command.`,
	Usage: "nurbsctl <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// stdout is replaced in tests.
var stdout io.Writer = os.Stdout

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp(rootCmd)
		return nil
	case "-v", "--version":
		fmt.Fprintf(stdout, "nurbsctl version %s\n", version.String())
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func printHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Environment:")
	fmt.Fprintln(stdout, "  NURBS_LOG_LEVEL      debug, info, warn or error")
	fmt.Fprintln(stdout, "  NURBS_LOG_FORMAT     console or json")
	fmt.Fprintln(stdout, "  NURBS_LOG_FILE       rotated JSON log file")
	fmt.Fprintln(stdout, "  NURBS_STORE_PATH     SQLite database of last valid results")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  nurbsctl curve -config geometry.yaml -format obj")
	fmt.Fprintln(stdout, "  nurbsctl surface -out cone.json")
	fmt.Fprintln(stdout, "  nurbsctl preview -kind surface -out cone.png")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
