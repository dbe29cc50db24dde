package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"gitlab.com/aoterocom/AOBinarybot/bot"
	"gitlab.com/aoterocom/AOBinarybot/helpers"
)

func main() {
	signalBot := bot.Bot{}

	strategyFlag := &cli.StringFlag{
		Name:  "strategy",
		Usage: "strategy to run, overrides the strategies parameter",
	}
	assetFlag := &cli.StringFlag{
		Name:  "asset",
		Usage: "asset to analyze, overrides the assets parameter",
	}
	providerFlag := &cli.StringFlag{
		Name:  "provider",
		Usage: "broker to use (demo or paper), overrides the provider parameter",
	}

	app := &cli.App{
		Name:  "AOBinarybot",
		Usage: "binary options signal validator and trader",
		Commands: []*cli.Command{
			{
				Name:  "trade",
				Usage: "run the trading loop",
				Flags: []cli.Flag{strategyFlag, providerFlag},
				Action: func(c *cli.Context) error {
					signalBot.RunTrader(c)
					return nil
				},
			},
			{
				Name:  "dashboard",
				Usage: "run the trading loop with the terminal dashboard",
				Flags: []cli.Flag{strategyFlag, providerFlag},
				Action: func(c *cli.Context) error {
					signalBot.RunDashboard(c)
					return nil
				},
			},
			{
				Name:  "backtest",
				Usage: "replay the strategy over recent candles and print the report",
				Flags: []cli.Flag{
					strategyFlag,
					assetFlag,
					providerFlag,
					&cli.IntFlag{
						Name:  "lookback",
						Usage: "candles to replay, overrides the lookbackPeriod parameter",
					},
				},
				Action: func(c *cli.Context) error {
					signalBot.RunBacktest(c)
					return nil
				},
			},
			{
				Name:  "optimize",
				Usage: "sweep confidence thresholds and print the best one",
				Flags: []cli.Flag{strategyFlag, assetFlag, providerFlag},
				Action: func(c *cli.Context) error {
					signalBot.RunOptimize(c)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		helpers.Logger.Fatalln(err)
	}
}
