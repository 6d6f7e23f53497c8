// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

type keeperConfig struct {
	AutoCompound string `yaml:"autoCompound"`
	Expiry       string `yaml:"expiry"`
}

type nodeConfig struct {
	DataDir     string       `yaml:"dataDir"`
	APIAddr     string       `yaml:"apiAddr"`
	APICors     string       `yaml:"apiCors"`
	Owner       string       `yaml:"owner"`
	Treasury    string       `yaml:"treasury"`
	Marketplace string       `yaml:"marketplace"`
	Keeper      keeperConfig `yaml:"keeper"`
}

// config is the layout of the --config file. Absent params keep their defaults.
type config struct {
	Params *params.Params `yaml:"params"`
	Node   nodeConfig     `yaml:"node"`
}

// loadConfig reads the optional config file, then the optional params file which replaces its params.
func loadConfig(path, paramsPath string) (*config, error) {
	cfg := &config{Params: params.Default()}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "decode config")
		}
		if err := cfg.Params.Validate(); err != nil {
			return nil, errors.WithMessage(err, "config params")
		}
	}
	if paramsPath != "" {
		p, err := params.Load(paramsPath)
		if err != nil {
			return nil, err
		}
		cfg.Params = p
	}
	return cfg, nil
}

// stringOption returns the flag value when given on the command line, then the file value,
// then the flag default.
func stringOption(ctx *cli.Context, flag cli.StringFlag, fileValue string) string {
	if ctx.IsSet(flag.Name) || fileValue == "" {
		return ctx.String(flag.Name)
	}
	return fileValue
}

func parseOptionalAddress(name, s string) (thor.Address, error) {
	if s == "" {
		return thor.Address{}, nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.WithMessagef(err, "parse %v address", name)
	}
	return addr, nil
}

// runtimeOptions resolves the identities set on first start. The owner is required unless solo,
// and the treasury defaults to the owner.
func runtimeOptions(ctx *cli.Context, cfg *config, solo bool) (runtime.Options, error) {
	var (
		opts runtime.Options
		err  error
	)
	if opts.Admin, err = parseOptionalAddress("owner", stringOption(ctx, ownerFlag, cfg.Node.Owner)); err != nil {
		return opts, err
	}
	if opts.Treasury, err = parseOptionalAddress("treasury", stringOption(ctx, treasuryFlag, cfg.Node.Treasury)); err != nil {
		return opts, err
	}
	if opts.Marketplace, err = parseOptionalAddress("marketplace", stringOption(ctx, marketplaceFlag, cfg.Node.Marketplace)); err != nil {
		return opts, err
	}
	opts.CacheSizeMB = ctx.Int(cacheFlag.Name)

	if solo {
		soloDefaults(&opts, devAccounts())
	}
	if opts.Admin.IsZero() {
		return opts, errors.New("owner address required")
	}
	if opts.Treasury.IsZero() {
		opts.Treasury = opts.Admin
	}
	return opts, nil
}
