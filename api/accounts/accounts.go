// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/skillstake/api/utils"
	"github.com/vechain/skillstake/builtin/gamification"
	"github.com/vechain/skillstake/runtime"
	"github.com/vechain/skillstake/thor"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) getAccount(addr thor.Address) (acc *Account, err error) {
	err = a.rt.View(func(v *runtime.View) error {
		lg := v.Ledger()
		state, err := lg.Account(addr)
		if err != nil {
			return err
		}
		balance, err := v.Balance(addr)
		if err != nil {
			return err
		}
		pending, err := lg.PendingRewards(addr, v.Now())
		if err != nil {
			return err
		}
		boosted, err := lg.BoostedRewards(addr, v.Now())
		if err != nil {
			return err
		}
		withdrawable, err := lg.WithdrawablePrincipal(addr, v.Now())
		if err != nil {
			return err
		}
		allowance, err := lg.RemainingAllowance(addr, v.Now())
		if err != nil {
			return err
		}
		acc = &Account{
			Address:        addr,
			Balance:        utils.Amount(balance),
			TotalDeposited: utils.Amount(state.TotalDeposited),
			DepositCount:   state.DepositCount,
			LastWithdrawAt: state.LastWithdrawAt,
			Pending:        utils.Amount(pending),
			Boosted:        utils.Amount(boosted),
			Withdrawable:   utils.Amount(withdrawable),
			Allowance:      utils.Amount(allowance),
		}
		return nil
	})
	return
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	acc, err := a.getAccount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetDeposits(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var deposits []*Deposit
	err = a.rt.View(func(v *runtime.View) error {
		views, err := v.Ledger().Deposits(addr, v.Now())
		if err != nil {
			return err
		}
		deposits = make([]*Deposit, 0, len(views))
		for _, d := range views {
			deposits = append(deposits, convertDeposit(d))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, deposits)
}

func (a *Accounts) handleGetSkills(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var result *Skills
	err = a.rt.View(func(v *runtime.View) error {
		sk := v.Skills()
		profile, err := sk.Profile(addr)
		if err != nil {
			return err
		}
		active, err := sk.ActiveSkills(addr)
		if err != nil {
			return err
		}
		boost, err := sk.StakingBoost(addr)
		if err != nil {
			return err
		}
		discount, err := sk.FeeDiscount(addr)
		if err != nil {
			return err
		}
		multiplier, err := sk.RarityMultiplier(addr)
		if err != nil {
			return err
		}
		result = convertSkills(profile, boost, discount, multiplier, active)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (a *Accounts) handleGetProgression(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return err
	}
	var result *Progression
	err = a.rt.View(func(v *runtime.View) error {
		gam := v.Gamification()
		p, err := gam.Progress(addr)
		if err != nil {
			return err
		}
		unclaimed, err := gam.UnclaimedTotal(addr, v.Now())
		if err != nil {
			return err
		}
		quests, err := gam.OpenGrants(addr, gamification.QuestGrant)
		if err != nil {
			return err
		}
		achievements, err := gam.OpenGrants(addr, gamification.AchievementGrant)
		if err != nil {
			return err
		}
		cfg, err := gam.AutoCompoundConfig(addr)
		if err != nil {
			return err
		}
		result = &Progression{
			XP:           p.XP,
			Level:        p.Level,
			Unclaimed:    utils.Amount(unclaimed),
			Quests:       quests,
			Achievements: achievements,
			AutoCompound: &AutoCompound{
				Enabled:        cfg.Enabled,
				MinAmount:      utils.Amount(cfg.MinAmount),
				LastCompoundAt: cfg.LastCompoundAt,
			},
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (a *Accounts) handleGetGrant(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	addr, err := utils.ParseAddress(vars["address"])
	if err != nil {
		return err
	}
	kind, ok := gamification.ParseGrantKind(vars["kind"])
	if !ok {
		return utils.BadRequest(errors.New("kind: expected quest or achievement"))
	}
	id, err := strconv.ParseUint(vars["id"], 0, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	var result *Grant
	err = a.rt.View(func(v *runtime.View) error {
		g, err := v.Gamification().Grant(addr, kind, id)
		if err != nil || g == nil {
			return err
		}
		result = convertGrant(kind, g, v.Now())
		return nil
	})
	if err != nil {
		return err
	}
	if result == nil {
		return utils.NotFound(errors.New("grant not found"))
	}
	return utils.WriteJSON(w, result)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/deposits").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/deposits").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetDeposits))
	sub.Path("/{address}/skills").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/skills").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetSkills))
	sub.Path("/{address}/progression").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/progression").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetProgression))
	sub.Path("/{address}/grants/{kind}/{id}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/grants/{kind}/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetGrant))
}
