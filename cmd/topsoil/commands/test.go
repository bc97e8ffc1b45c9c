package commands

import "fmt"

// TestCmd implements the 'test' command.
type TestCmd struct{}

func (t *TestCmd) Run(g *Global) error {
	_, err := fmt.Fprintln(g.stdout(), "Hello world!")
	return err
}

// NoneCmd runs when no command, or an unknown one, is given. It only logs.
type NoneCmd struct {
	Args []string `arg:"" optional:""`
}

func (n *NoneCmd) Run(g *Global) error {
	g.logger().Info("No command line argument passed.")
	return nil
}
