package config

import "fmt"

// Handler implements one console command, returning text for the debug
// console to print (internal/engine/console.go, SPEC_FULL.md §9).
type Handler func(args []string) (string, error)

// Register adds a command under name, replacing any existing handler of
// the same name. internal/engine calls this once to wire show_mobjs/
// show_sectors (SPEC_FULL.md §10) against live world/arena state this
// package has no business depending on directly.
func (c *Config) Register(name string, h Handler) {
	if c.commands == nil {
		c.commands = make(map[string]Handler)
	}
	c.commands[name] = h
}

// Command dispatches a console command line. "ddfcvar key value" is
// handled here directly since it only ever touches this Config's own
// map (spec.md §6: "one ddfcvar key value console command variant is
// accepted"); every other name is looked up in the Register table.
func (c *Config) Command(name string, args []string) (string, error) {
	if name == "ddfcvar" {
		if len(args) != 2 {
			return "", fmt.Errorf("config: ddfcvar takes exactly 2 arguments (key value), got %d", len(args))
		}
		c.Set(args[0], args[1])
		return fmt.Sprintf("%s = %s", args[0], args[1]), nil
	}
	h, ok := c.commands[name]
	if !ok {
		return "", fmt.Errorf("config: unknown console command %q", name)
	}
	return h(args)
}
