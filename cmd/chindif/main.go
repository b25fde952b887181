package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/username/chindiferencia/backend/src/config"
)

func main() {
	// A missing .env is normal for the CLI; the environment still applies.
	_ = godotenv.Load()
	config.Cfg = config.FromEnv()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&reconcileCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
