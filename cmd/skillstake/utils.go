// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/lvldb"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	level := new(slog.LevelVar)
	level.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.skillstake")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.skillstake")
		default:
			return filepath.Join(home, ".org.vechain.skillstake")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(dir string) (string, error) {
	if dir == "" {
		return "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dir)
	}
	return dir, nil
}

func openMainDB(dir string, cacheMB int) (*lvldb.LevelDB, error) {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", path)
	}
	return db, nil
}

func openEventDB(dir string) (*eventdb.EventDB, error) {
	path := filepath.Join(dir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "open event database [%v]", path)
	}
	return db, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

type startupInfo struct {
	dataDir     string
	owner       string
	treasury    string
	marketplace string
	apiURL      string
	metricsURL  string
	adminURL    string
	keeper      string
}

func printStartupMessage(w io.Writer, info *startupInfo) {
	fmt.Fprintf(w, `Starting SkillStake %v
    Data dir       [ %v ]
    Owner          [ %v ]
    Treasury       [ %v ]
    Marketplace    [ %v ]
    API portal     [ %v ]
    Metrics        [ %v ]
    Admin          [ %v ]
    Keeper         [ %v ]
`,
		fullVersion(),
		info.dataDir,
		info.owner,
		info.treasury,
		orNone(info.marketplace),
		info.apiURL,
		orNone(info.metricsURL),
		orNone(info.adminURL),
		orNone(info.keeper),
	)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
