// Command symcalc parses and evaluates symbolic math expressions.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/zephyrtronium/symcalc"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		log.Error().Err(err).Msg("symcalc failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	r := &runner{log: zerolog.Nop()}
	return &cli.App{
		Name:  "symcalc",
		Usage: "parse and evaluate symbolic math expressions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log parser decisions to stderr",
			},
		},
		Before: r.setup,
		Commands: []*cli.Command{
			{
				Name:      "eval",
				Usage:     "evaluate expressions from arguments, or one per line of stdin",
				ArgsUsage: "EXPR...",
				Flags: []cli.Flag{
					givenFlag,
					&cli.StringFlag{
						Name:  "fmt",
						Value: "%g",
						Usage: "result formatting string",
					},
					&cli.BoolFlag{
						Name:  "echo",
						Usage: "print parse trees",
					},
					&cli.BoolFlag{
						Name:  "nofold",
						Usage: "keep constant subexpressions unevaluated",
					},
					&cli.IntFlag{
						Name:  "max-depth",
						Value: symcalc.DefaultMaxDepth,
						Usage: "maximum nesting depth, or 0 for no limit",
					},
				},
				Action: r.eval,
			},
			{
				Name:      "tokens",
				Usage:     "print the tokens of an expression",
				ArgsUsage: "EXPR",
				Action:    r.tokens,
			},
			{
				Name:      "fn",
				Usage:     "apply a single function node",
				ArgsUsage: "add|mul|div|coef|exp|log|root A B",
				Flags: []cli.Flag{
					givenFlag,
					&cli.StringFlag{
						Name:  "fmt",
						Value: "%g",
						Usage: "result formatting string",
					},
				},
				Action: r.fn,
			},
		},
	}
}

var givenFlag = &cli.StringSliceFlag{
	Name:  "given",
	Usage: "name=value variable definition; value is a constant expression (any number of times)",
}
