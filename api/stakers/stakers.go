// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/api/utils"
	"github.com/vechain/thor-oracle/oracle"
	"github.com/vechain/thor-oracle/thor"
)

type Stakers struct {
	oracle *oracle.Oracle
}

func New(o *oracle.Oracle) *Stakers {
	return &Stakers{o}
}

func (s *Stakers) handleGetStakers(w http.ResponseWriter, req *http.Request) error {
	list, err := s.oracle.Stakers()
	if err != nil {
		return err
	}
	total, err := s.oracle.TotalStake()
	if err != nil {
		return err
	}
	out := &StakerList{
		TotalStake: utils.U256(total),
		Stakers:    make([]*Staker, 0, len(list)),
	}
	for _, st := range list {
		out.Stakers = append(out.Stakers, convertStaker(st))
	}
	return utils.WriteJSON(w, out)
}

func (s *Stakers) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(req)["id"], "id")
	if err != nil {
		return err
	}
	st, err := s.oracle.Staker(id)
	if err != nil {
		return err
	}
	if st == nil {
		return utils.NotFound(errors.New("staker not found"))
	}
	return utils.WriteJSON(w, convertStaker(st))
}

func (s *Stakers) handleGetStakerByAddress(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	st, err := s.oracle.StakerByAddress(*addr)
	if err != nil {
		return err
	}
	if st == nil {
		return utils.NotFound(errors.New("staker not found"))
	}
	return utils.WriteJSON(w, convertStaker(st))
}

func (s *Stakers) handleJoin(w http.ResponseWriter, req *http.Request) error {
	var body JoinRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := s.oracle.Join(body.Address)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &JoinResponse{ID: id})
}

func (s *Stakers) handleStake(increase bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		id, err := utils.ParseUint64(mux.Vars(req)["id"], "id")
		if err != nil {
			return err
		}
		var body StakeRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		amount, err := utils.ParseU256(body.Amount, "amount")
		if err != nil {
			return err
		}
		if increase {
			err = s.oracle.IncreaseStake(id, amount)
		} else {
			err = s.oracle.DecreaseStake(id, amount)
		}
		if err != nil {
			return err
		}
		st, err := s.oracle.Staker(id)
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, convertStaker(st))
	}
}

func (s *Stakers) handleMint(w http.ResponseWriter, req *http.Request) error {
	var body MintRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.ParseU256(body.Amount, "amount")
	if err != nil {
		return err
	}
	if err := s.oracle.Mint(body.Address, amount); err != nil {
		return err
	}
	return s.writeBalance(w, body.Address)
}

func (s *Stakers) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return s.writeBalance(w, *addr)
}

func (s *Stakers) writeBalance(w http.ResponseWriter, addr thor.Address) error {
	bal, err := s.oracle.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Address: addr, Balance: utils.U256(bal)})
}

// Mount registers the staker routes under pathPrefix and the token routes under tokenPrefix.
func (s *Stakers) Mount(root *mux.Router, pathPrefix, tokenPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("stakers_get_stakers").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakers))
	sub.Path("").
		Methods(http.MethodPost).
		Name("stakers_join").
		HandlerFunc(utils.WrapHandlerFunc(s.handleJoin))
	sub.Path("/address/{address}").
		Methods(http.MethodGet).
		Name("stakers_get_staker_by_address").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakerByAddress))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("stakers_get_staker").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStaker))
	sub.Path("/{id}/stake").
		Methods(http.MethodPost).
		Name("stakers_increase_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake(true)))
	sub.Path("/{id}/unstake").
		Methods(http.MethodPost).
		Name("stakers_decrease_stake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake(false)))

	tokens := root.PathPrefix(tokenPrefix).Subrouter()
	tokens.Path("/mint").
		Methods(http.MethodPost).
		Name("tokens_mint").
		HandlerFunc(utils.WrapHandlerFunc(s.handleMint))
	tokens.Path("/{address}").
		Methods(http.MethodGet).
		Name("tokens_get_balance").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetBalance))
}
