package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/chris-ricketts/shade/cmd"
	"github.com/chris-ricketts/shade/docs"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// A .env next to the user is the handiest place for the gateway URL and
	// API keys. Not having one is fine.
	godotenv.Load()

	// Answers shell completion requests and exits; a no-op otherwise.
	// Must run before flag.Parse.
	completion().Complete("shd")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	topics, _ := docs.GetAllTopics()

	strategy := predict.Set{"reserves", "allowance", "rewards", "staking", "application", "pool"}

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"init":     {},
			"config":   {},
			"status":   {},
			"fmt":      {},
			"register": {},
			"allocate": {Flags: map[string]complete.Predictor{"strategy": strategy}},
			"receive":  {},
			"refresh":  {},
			"grant":    {},
			"topic":    {Args: predict.Set(topics)},
			"assist":   {},
		},
		Flags: map[string]complete.Predictor{
			"t": predict.Dirs("*"),
		},
	}
}
