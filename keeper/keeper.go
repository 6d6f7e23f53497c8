// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package keeper runs the periodic maintenance of the system: auto-compounding opted-in users
// and expiring unclaimed grants.
package keeper

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/vechain/skillstake/builtin/gamification"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "keeper")

// Default schedules, in the six-field cron format (with seconds).
const (
	DefaultAutoCompoundSpec = "0 */10 * * * *"
	DefaultExpirySpec       = "30 0 * * * *"
)

// Config holds the cron specs of the jobs. An empty spec disables the job.
type Config struct {
	AutoCompoundSpec string
	ExpirySpec       string
}

// Keeper schedules maintenance calls against a runtime.
type Keeper struct {
	cron *cron.Cron
	rt   *runtime.Runtime
}

func New(rt *runtime.Runtime, cfg Config) (*Keeper, error) {
	k := &Keeper{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		rt:   rt,
	}
	if cfg.AutoCompoundSpec != "" {
		if _, err := k.cron.AddFunc(cfg.AutoCompoundSpec, func() { k.AutoCompoundSweep() }); err != nil {
			return nil, errors.Wrap(err, "register auto-compound job")
		}
	}
	if cfg.ExpirySpec != "" {
		if _, err := k.cron.AddFunc(cfg.ExpirySpec, func() { k.ExpirySweep() }); err != nil {
			return nil, errors.Wrap(err, "register grant expiry job")
		}
	}
	return k, nil
}

func (k *Keeper) Start() {
	k.cron.Start()
	logger.Info("keeper started", "jobs", len(k.cron.Entries()))
}

// Stop stops scheduling and waits for running jobs to finish.
func (k *Keeper) Stop() {
	<-k.cron.Stop().Done()
	logger.Info("keeper stopped")
}

// AutoCompoundSweep compounds every opted-in user that is due. It returns the number of users compounded.
func (k *Keeper) AutoCompoundSweep() int {
	var due []thor.Address
	err := k.rt.View(func(v *runtime.View) error {
		users, err := v.Gamification().AutoCompoundUsers()
		if err != nil {
			return err
		}
		for _, user := range users {
			pending, err := v.Ledger().PendingRewards(user, v.Now())
			if err != nil {
				return err
			}
			ok, err := v.Gamification().CheckAutoCompound(user, pending, v.Now())
			if err != nil {
				return err
			}
			if ok {
				due = append(due, user)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to scan auto-compound users", "err", err)
		metricJobCount().AddWithLabel(1, map[string]string{"job": "auto-compound", "result": "error"})
		return 0
	}

	done := 0
	for _, user := range due {
		receipt, err := k.rt.AutoCompound(user)
		if err != nil {
			// state may have moved since the scan
			if reverts.IsRevertErr(err) {
				logger.Debug("auto-compound skipped", "user", user, "err", err)
			} else {
				logger.Warn("auto-compound failed", "user", user, "err", err)
			}
			continue
		}
		logger.Debug("auto-compounded", "user", user, "reward", receipt.Reward)
		done++
	}
	metricJobCount().AddWithLabel(1, map[string]string{"job": "auto-compound", "result": "ok"})
	metricJobProcessed().AddWithLabel(int64(done), map[string]string{"job": "auto-compound"})
	if done > 0 {
		logger.Info("auto-compound sweep", "due", len(due), "compounded", done)
	}
	return done
}

type expiryBatch struct {
	user thor.Address
	kind gamification.GrantKind
	ids  []uint64
}

// ExpirySweep expires every open grant past its deadline. It returns the number of grants expired.
func (k *Keeper) ExpirySweep() int {
	var batches []expiryBatch
	err := k.rt.View(func(v *runtime.View) error {
		holders, err := v.Gamification().GrantHolders()
		if err != nil {
			return err
		}
		for _, user := range holders {
			for _, kind := range []gamification.GrantKind{gamification.QuestGrant, gamification.AchievementGrant} {
				ids, err := v.Gamification().OpenGrants(user, kind)
				if err != nil {
					return err
				}
				var stale []uint64
				for _, id := range ids {
					g, err := v.Gamification().Grant(user, kind, id)
					if err != nil {
						return err
					}
					if g != nil && !g.Claimable(v.Now()) {
						stale = append(stale, id)
					}
				}
				if len(stale) > 0 {
					batches = append(batches, expiryBatch{user, kind, stale})
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to scan grants", "err", err)
		metricJobCount().AddWithLabel(1, map[string]string{"job": "expiry", "result": "error"})
		return 0
	}

	total := 0
	for _, b := range batches {
		expired, err := k.rt.ExpireGrants(b.user, b.kind, b.ids)
		if err != nil {
			logger.Warn("grant expiry failed", "user", b.user, "kind", b.kind, "err", err)
			continue
		}
		total += len(expired)
	}
	metricJobCount().AddWithLabel(1, map[string]string{"job": "expiry", "result": "ok"})
	metricJobProcessed().AddWithLabel(int64(total), map[string]string{"job": "expiry"})
	if total > 0 {
		logger.Info("grant expiry sweep", "expired", total)
	}
	return total
}
