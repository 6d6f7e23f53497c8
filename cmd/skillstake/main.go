// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/skillstake/api"
	"github.com/vechain/skillstake/cmd/skillstake/httpserver"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/keeper"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/lvldb"
	"github.com/vechain/skillstake/metrics"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

var commonFlags = []cli.Flag{
	configFlag,
	paramsFlag,
	cacheFlag,
	apiAddrFlag,
	apiCorsFlag,
	apiTimeoutFlag,
	apiEventsLimitFlag,
	apiSubscriptionCacheFlag,
	enableAPILogsFlag,
	apiSlowQueriesThresholdFlag,
	apiLog5xxErrorsFlag,
	pprofFlag,
	verbosityFlag,
	jsonLogsFlag,
	enableMetricsFlag,
	metricsAddrFlag,
	enableAdminFlag,
	adminAddrFlag,
	ownerFlag,
	treasuryFlag,
	marketplaceFlag,
	disableKeeperFlag,
	autoCompoundSpecFlag,
	expirySpecFlag,
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "SkillStake",
		Usage:     "Staking ledger with skill boosts and gamified rewards",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags:     append([]cli.Flag{dataDirFlag}, commonFlags...),
		Action:    defaultAction,
		Commands: []cli.Command{
			{
				Name:   "solo",
				Usage:  "in-memory node for test & dev, with the call endpoint enabled",
				Flags:  append([]cli.Flag{soloFundFlag}, commonFlags...),
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	cfg, err := loadConfig(ctx.String(configFlag.Name), ctx.String(paramsFlag.Name))
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(stringOption(ctx, dataDirFlag, cfg.Node.DataDir))
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(dataDir, ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	eventDB, err := openEventDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing event database..."); eventDB.Close() }()

	return run(ctx, logLevel, cfg, dataDir, mainDB, eventDB, false)
}

func soloAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	logLevel := initLogger(ctx)
	cfg, err := loadConfig(ctx.String(configFlag.Name), ctx.String(paramsFlag.Name))
	if err != nil {
		return err
	}

	mainDB := lvldb.NewMem()
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	eventDB, err := eventdb.NewMem()
	if err != nil {
		return errors.WithMessage(err, "open event database")
	}
	defer func() { log.Info("closing event database..."); eventDB.Close() }()

	return run(ctx, logLevel, cfg, "Memory", mainDB, eventDB, true)
}

func run(
	ctx *cli.Context,
	logLevel *slog.LevelVar,
	cfg *config,
	dataDir string,
	mainDB *lvldb.LevelDB,
	eventDB *eventdb.EventDB,
	solo bool,
) error {
	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping metrics server..."); stop() }()
		metricsURL = url
	}

	opts, err := runtimeOptions(ctx, cfg, solo)
	if err != nil {
		return err
	}
	rt, err := runtime.New(mainDB, eventDB, cfg.Params, opts)
	if err != nil {
		return err
	}
	if solo {
		fund := thor.Tokens(int64(ctx.Uint64(soloFundFlag.Name)))
		accs := devAccounts()
		if !slices.Contains(accs, opts.Admin) {
			accs = append(accs, opts.Admin)
		}
		for _, acc := range accs {
			if err := rt.Mint(acc, fund); err != nil {
				return err
			}
		}
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeAPI := api.New(rt, api.Options{
		AllowedOrigins:        stringOption(ctx, apiCorsFlag, cfg.Node.APICors),
		PprofOn:               ctx.Bool(pprofFlag.Name),
		EnableReqLogger:       apiLogs,
		SlowQueriesThreshold:  time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:          ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:         ctx.Bool(enableMetricsFlag.Name),
		EventsLimit:           ctx.Uint64(apiEventsLimitFlag.Name),
		SubscriptionCacheSize: ctx.Int(apiSubscriptionCacheFlag.Name),
		SoloMode:              solo,
	})
	defer func() { log.Info("closing API..."); closeAPI() }()

	apiURL, stopAPI, err := httpserver.StartAPIServer(
		stringOption(ctx, apiAddrFlag, cfg.Node.APIAddr),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); stopAPI() }()

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, rt)
		if err != nil {
			return err
		}
		defer func() { log.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	var keeperDesc string
	if !ctx.Bool(disableKeeperFlag.Name) {
		k, err := keeper.New(rt, keeper.Config{
			AutoCompoundSpec: stringOption(ctx, autoCompoundSpecFlag, cfg.Node.Keeper.AutoCompound),
			ExpirySpec:       stringOption(ctx, expirySpecFlag, cfg.Node.Keeper.Expiry),
		})
		if err != nil {
			return err
		}
		k.Start()
		defer func() { log.Info("stopping keeper..."); k.Stop() }()
		keeperDesc = "auto-compound and grant expiry"
	}

	info := &startupInfo{
		dataDir:    dataDir,
		owner:      opts.Admin.String(),
		treasury:   opts.Treasury.String(),
		apiURL:     apiURL,
		metricsURL: metricsURL,
		adminURL:   adminURL,
		keeper:     keeperDesc,
	}
	if !opts.Marketplace.IsZero() {
		info.marketplace = opts.Marketplace.String()
	}
	printStartupMessage(os.Stdout, info)

	<-handleExitSignal().Done()
	return nil
}
