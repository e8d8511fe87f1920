// Package cmd implements the CLI application to manage a treasury.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/chris-ricketts/shade"
	"github.com/chris-ricketts/shade/renderer"
	"github.com/chris-ricketts/shade/snip20"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "treasury")
	c.Register(&configCmd{}, "treasury")
	c.Register(&statusCmd{}, "treasury")
	c.Register(&fmtCmd{}, "treasury")

	c.Register(&registerCmd{}, "assets")
	c.Register(&allocateCmd{}, "assets")

	c.Register(&receiveCmd{}, "operations")
	c.Register(&refreshCmd{}, "operations")
	c.Register(&grantCmd{}, "operations")

	c.Register(&topicCmd{}, "help")
	c.Register(&AssistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var treasuryDir = flag.String("t", "", "Path to the treasury folder (default $SHD_TREASURY or .shade)")
var gatewayURL = flag.String("gateway", "", "Base URL of the token query gateway (default $SHD_GATEWAY)")
var gatewayKey = flag.String("key", "", "API key for the gateway (default $SHD_GATEWAY_KEY)")
var from = flag.String("from", "", "Address mutating commands act as (default the configured admin)")

// TreasuryDir resolves the treasury folder: the -t flag, then $SHD_TREASURY,
// then ".shade".
func TreasuryDir() string {
	if *treasuryDir != "" {
		return *treasuryDir
	}
	if dir := os.Getenv("SHD_TREASURY"); dir != "" {
		return dir
	}
	return ".shade"
}

// Gateway resolves the gateway base URL: the -gateway flag, then $SHD_GATEWAY.
func Gateway() string {
	if *gatewayURL != "" {
		return *gatewayURL
	}
	return os.Getenv("SHD_GATEWAY")
}

// GatewayKey resolves the gateway API key: the -key flag, then
// $SHD_GATEWAY_KEY.
func GatewayKey() string {
	if *gatewayKey != "" {
		return *gatewayKey
	}
	return os.Getenv("SHD_GATEWAY_KEY")
}

// OpenStore opens the treasury folder, initialized or not.
func OpenStore() *shade.DirStore {
	return shade.OpenDir(TreasuryDir())
}

// OpenTreasury binds the treasury folder to the gateway. It fails when the
// folder was never initialized.
func OpenTreasury() (*shade.Treasury, error) {
	store := OpenStore()
	if _, err := store.Config(); err != nil {
		return nil, err
	}
	return shade.New(store, snip20.New(Gateway(), GatewayKey())), nil
}

// Caller resolves the address mutating commands act as: -from when given,
// the configured admin otherwise.
func Caller(store *shade.DirStore) (shade.Address, error) {
	if *from != "" {
		return shade.ParseAddress(*from)
	}
	cfg, err := store.Config()
	if err != nil {
		return "", err
	}
	return cfg.Admin, nil
}

// printMarkdown renders markdown for the terminal, and prints it raw when
// stdout is not one.
func printMarkdown(content string) {
	fi, err := os.Stdout.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		fmt.Print(content)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(content)
		return
	}
	out, err := r.Render(content)
	if err != nil {
		fmt.Print(content)
		return
	}
	fmt.Print(out)
}

// printActions shows the outbound messages an operation produced. The admin
// still has to submit them to the contracts; shd never sends anything itself.
func printActions(actions []shade.Action) {
	if len(actions) == 0 {
		fmt.Println("Nothing to send.")
		return
	}
	printMarkdown(renderer.RenderActions(renderer.NewActionReport(actions)))
}
