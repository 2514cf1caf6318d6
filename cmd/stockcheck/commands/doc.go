// Package commands wires the stockcheck CLI: the root command runs the TUI,
// the subcommands inspect and reset the persisted selections without it.
package commands
