// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/skillstake/keeper"
	"github.com/vechain/skillstake/log"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a yaml file with economic params and node options",
	}
	paramsFlag = cli.StringFlag{
		Name:  "params",
		Usage: "path to a yaml file of economic params, replaces the params of --config",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger and event databases",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 256,
		Usage: "megabytes of ram allocated to the state cache",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	apiSubscriptionCacheFlag = cli.IntFlag{
		Name:  "api-subscription-cache",
		Value: 1000,
		Usage: "number of encoded event messages cached for subscriptions",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries with duration (ms) above the threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all requests answered with a 5xx status",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "address of the ledger administrator, set on first start",
	}
	treasuryFlag = cli.StringFlag{
		Name:  "treasury",
		Usage: "address receiving commission, set on first start (defaults to the owner)",
	}
	marketplaceFlag = cli.StringFlag{
		Name:  "marketplace",
		Usage: "address allowed to activate skills and grant rewards, set on first start",
	}
	disableKeeperFlag = cli.BoolFlag{
		Name:  "disable-keeper",
		Usage: "disable the scheduled auto-compound and grant expiry jobs",
	}
	autoCompoundSpecFlag = cli.StringFlag{
		Name:  "keeper-auto-compound",
		Value: keeper.DefaultAutoCompoundSpec,
		Usage: "cron spec (with seconds) of the auto-compound sweep",
	}
	expirySpecFlag = cli.StringFlag{
		Name:  "keeper-expiry",
		Value: keeper.DefaultExpirySpec,
		Usage: "cron spec (with seconds) of the grant expiry sweep",
	}
	soloFundFlag = cli.Uint64Flag{
		Name:  "fund",
		Value: 1_000_000,
		Usage: "tokens minted to the owner and each dev account when the solo node starts",
	}
)
