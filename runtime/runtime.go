// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes calls against the native modules, one at a time, each as a single
// all-or-nothing unit.
package runtime

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/skillstake/builtin"
	"github.com/vechain/skillstake/builtin/bank"
	"github.com/vechain/skillstake/builtin/gamification"
	"github.com/vechain/skillstake/builtin/ledger"
	"github.com/vechain/skillstake/builtin/params"
	"github.com/vechain/skillstake/builtin/reverts"
	"github.com/vechain/skillstake/builtin/rewards"
	"github.com/vechain/skillstake/builtin/skills"
	"github.com/vechain/skillstake/builtin/solidity"
	"github.com/vechain/skillstake/co"
	"github.com/vechain/skillstake/eventdb"
	"github.com/vechain/skillstake/kv"
	"github.com/vechain/skillstake/log"
	"github.com/vechain/skillstake/state"
	"github.com/vechain/skillstake/thor"
)

var logger = log.WithContext("pkg", "runtime")

// Options configures the identities set up on first start.
type Options struct {
	Admin       thor.Address
	Treasury    thor.Address
	Marketplace thor.Address
	CacheSizeMB int
	// Clock returns the current unix time. Defaults to the wall clock.
	Clock func() uint64
}

// Runtime owns the state and every module built on it.
type Runtime struct {
	lock sync.Mutex
	// hooks counts receiver hooks in flight. They run while lock is held.
	hooks atomic.Int32

	state   *state.State
	eventDB *eventdb.EventDB
	params  *params.Params
	clock   func() uint64

	engine  *rewards.Engine
	bank    *bank.Bank
	ledger  *ledger.Ledger
	skills  *skills.Skills
	gam     *gamification.Gamification
	modules map[thor.Address]string

	newEvents co.Signal
}

// New builds the runtime over db. eventDB may be nil, in which case events are only broadcast.
func New(db kv.Store, eventDB *eventdb.EventDB, p *params.Params, opts Options) (*Runtime, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}

	st := state.New(db, opts.CacheSizeMB)
	engine := rewards.New(p)
	bk := bank.New(solidity.NewContext(builtin.Bank, st))
	sk := skills.New(solidity.NewContext(builtin.Skills, st), p)
	lg := ledger.New(solidity.NewContext(builtin.Ledger, st), p, engine, bk)
	lg.SetBoosts(sk)

	r := &Runtime{
		state:   st,
		eventDB: eventDB,
		params:  p,
		clock:   clock,
		engine:  engine,
		bank:    bk,
		ledger:  lg,
		skills:  sk,
		gam:     gamification.New(solidity.NewContext(builtin.Gamification, st), p),
		modules: map[thor.Address]string{
			builtin.Ledger:       "ledger",
			builtin.Rewards:      "rewards",
			builtin.Skills:       "skills",
			builtin.Gamification: "gamification",
			builtin.Bank:         "bank",
		},
	}
	if err := r.initialize(opts); err != nil {
		return nil, errors.WithMessage(err, "initialize runtime")
	}
	return r, nil
}

// initialize sets up every module the first time the store is used.
func (r *Runtime) initialize(opts Options) error {
	ok, err := r.ledger.Initialized()
	if err != nil || ok {
		return err
	}
	return r.exec("initialize", func(uint64) error {
		if err := r.ledger.Initialize(opts.Admin, opts.Treasury); err != nil {
			return err
		}
		if err := r.skills.Initialize(opts.Admin, opts.Marketplace); err != nil {
			return err
		}
		if err := r.gam.Initialize(opts.Admin, opts.Marketplace); err != nil {
			return err
		}
		if err := r.ledger.SetSkillsModule(opts.Admin, builtin.Skills); err != nil {
			return err
		}
		return r.ledger.SetGamificationModule(opts.Admin, builtin.Gamification)
	})
}

// exec runs fn under the global lock inside a checkpoint. A failure reverts every change fn
// made, success commits them together with the emitted events.
func (r *Runtime) exec(op string, fn func(now uint64) error) error {
	if err := r.checkReentry(); err != nil {
		metricCallCount().AddWithLabel(1, map[string]string{"op": op, "result": resultOf(err)})
		logger.Debug("call reverted", "op", op, "err", err)
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()

	start := time.Now()
	now := r.clock()
	cp := r.state.NewCheckpoint()

	if err := fn(now); err != nil {
		r.state.RevertTo(cp)
		metricCallCount().AddWithLabel(1, map[string]string{"op": op, "result": resultOf(err)})
		if reverts.IsRevertErr(err) {
			logger.Debug("call reverted", "op", op, "err", err)
		} else {
			logger.Warn("call failed", "op", op, "err", err)
		}
		return err
	}

	stage := r.state.Stage()
	if err := stage.Commit(); err != nil {
		r.state.RevertTo(0)
		metricCallCount().AddWithLabel(1, map[string]string{"op": op, "result": "error"})
		logger.Error("failed to commit", "op", op, "err", err)
		return err
	}
	r.publish(now, stage.Events())

	metricCallCount().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	metricCallDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})
	r.updatePoolMetrics()
	return nil
}

// checkReentry rejects calls made while a receiver hook runs. The call in flight holds the
// lock until the hook returns, so waiting for it would never end.
func (r *Runtime) checkReentry() error {
	if r.hooks.Load() > 0 {
		return reverts.New(reverts.Reentrancy, "call made from a receiver hook")
	}
	return nil
}

func resultOf(err error) string {
	if kind, ok := reverts.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

// publish stores committed events and wakes subscribers.
func (r *Runtime) publish(now uint64, events []state.Event) {
	if len(events) == 0 {
		return
	}
	if r.eventDB != nil {
		records := make([]*eventdb.Event, 0, len(events))
		for i := range events {
			records = append(records, eventdb.NewEvent(now, &events[i]))
		}
		if err := r.eventDB.Insert(context.Background(), records); err != nil {
			logger.Error("failed to persist events", "count", len(records), "err", err)
		}
	}
	r.newEvents.Broadcast()
}

func (r *Runtime) updatePoolMetrics() {
	pool, err := r.ledger.Pool()
	if err != nil {
		return
	}
	metricPoolBalance().Set(wholeTokens(pool.TotalPoolBalance))
	metricPendingCommission().Set(wholeTokens(pool.PendingCommission))
	metricUniqueUsers().Set(int64(pool.UniqueUsers))
}

func wholeTokens(v *big.Int) int64 {
	t := new(big.Int).Quo(v, thor.Token)
	if !t.IsInt64() {
		return 0
	}
	return t.Int64()
}

// View runs a read-only fn against committed state under the global lock.
func (r *Runtime) View(fn func(v *View) error) error {
	if err := r.checkReentry(); err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return fn(&View{r: r, now: r.clock()})
}

// NewEventsWaiter returns a waiter woken after every commit that emitted events.
func (r *Runtime) NewEventsWaiter() co.Waiter {
	return r.newEvents.NewWaiter()
}

// EventDB returns the event log, nil if events are not persisted.
func (r *Runtime) EventDB() *eventdb.EventDB {
	return r.eventDB
}

func (r *Runtime) Params() *params.Params {
	return r.params
}

// Modules returns the registry of native module addresses.
func (r *Runtime) Modules() map[thor.Address]string {
	m := make(map[thor.Address]string, len(r.modules))
	for k, v := range r.modules {
		m[k] = v
	}
	return m
}

// SetReceiver installs an in-process hook for value sent to addr. A nil recv removes it.
// The hook runs inside the call that moves the value, and any runtime call it makes fails
// with Reentrancy.
func (r *Runtime) SetReceiver(addr thor.Address, recv bank.Receiver) error {
	if err := r.checkReentry(); err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if recv == nil {
		r.bank.SetReceiver(addr, nil)
		return nil
	}
	r.bank.SetReceiver(addr, bank.ReceiverFunc(func(from thor.Address, amount *big.Int) error {
		r.hooks.Add(1)
		defer r.hooks.Add(-1)
		return recv.OnReceive(from, amount)
	}))
	return nil
}

// awardXP credits progression when the gamification module is wired and keeps the
// cached level of the skills module in sync.
func (r *Runtime) awardXP(user thor.Address, action gamification.Action, amount *big.Int) error {
	settings, err := r.ledger.Settings()
	if err != nil {
		return err
	}
	if settings.GamificationModule.IsZero() {
		return nil
	}
	p, err := r.gam.AwardXP(user, action, amount)
	if err != nil {
		return err
	}
	return r.skills.SyncLevel(user, p.Level, p.XP)
}

func (r *Runtime) syncLevel(user thor.Address) error {
	p, err := r.gam.Progress(user)
	if err != nil {
		return err
	}
	return r.skills.SyncLevel(user, p.Level, p.XP)
}
