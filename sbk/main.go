package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/jkoenig/smartbroker/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// shell completion, only active when invoked by the shell's completer
	completer := &complete.Command{
		Sub: map[string]*complete.Command{
			"accounts":  {},
			"portfolio": {Flags: map[string]complete.Predictor{"a": predict.Nothing}},
			"fetch":     {},
			"history":   {Flags: map[string]complete.Predictor{"s": predict.Nothing, "d": predict.Nothing}},
			"quote":     {},
		},
		Flags: map[string]complete.Predictor{
			"access-number": predict.Nothing,
			"identifier":    predict.Nothing,
			"snapshot-file": predict.Files("*.jsonl"),
			"portal-url":    predict.Nothing,
		},
	}
	completer.Complete("sbk")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
