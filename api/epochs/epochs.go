// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epochs

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/api/utils"
	"github.com/vechain/thor-oracle/oracle"
	"github.com/vechain/thor-oracle/thor"
)

type Epochs struct {
	oracle *oracle.Oracle
}

func New(o *oracle.Oracle) *Epochs {
	return &Epochs{o}
}

func parseEpoch(req *http.Request) (uint64, error) {
	return utils.ParseUint64(mux.Vars(req)["epoch"], "epoch")
}

func (e *Epochs) handleGetClock(w http.ResponseWriter, req *http.Request) error {
	num, phase, err := e.oracle.Clock()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Clock{Epoch: num, Phase: phase})
}

func (e *Epochs) handleAdvance(w http.ResponseWriter, req *http.Request) error {
	var body AdvanceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tr, err := e.oracle.AdvancePhase(body.Epoch, body.Phase)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertTransition(tr))
}

func (e *Epochs) handleCommit(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	var body CommitRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := e.oracle.Commit(num, body.Voter, body.Hash); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (e *Epochs) handleGetCommitment(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	id, err := utils.ParseUint64(mux.Vars(req)["id"], "id")
	if err != nil {
		return err
	}
	h, err := e.oracle.Commitment(num, id)
	if err != nil {
		return err
	}
	if h.IsZero() {
		return utils.NotFound(errors.New("commitment not found"))
	}
	return utils.WriteJSON(w, &Commitment{StakerID: id, Hash: h})
}

func (e *Epochs) handleReveal(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	var body RevealRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	value, err := utils.ParseU256(body.Value, "value")
	if err != nil {
		return err
	}
	vote, err := e.oracle.Reveal(num, body.Voter, value, body.Secret)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertVote(vote))
}

func (e *Epochs) handleGetVote(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	id, err := utils.ParseUint64(mux.Vars(req)["id"], "id")
	if err != nil {
		return err
	}
	vote, err := e.oracle.Vote(num, id)
	if err != nil {
		return err
	}
	if vote == nil {
		return utils.NotFound(errors.New("vote not found"))
	}
	return utils.WriteJSON(w, convertVote(vote))
}

func (e *Epochs) handleGetTally(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	t, err := e.oracle.Tally(num)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Tally{
		Voters:              t.Voters,
		DistinctValues:      t.DistinctValues,
		TotalRevealedWeight: utils.U256(t.TotalRevealedWeight),
	})
}

func (e *Epochs) handleGetWeight(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	var v math.HexOrDecimal256
	if err := v.UnmarshalText([]byte(mux.Vars(req)["value"])); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "value"))
	}
	value, err := utils.ParseU256(&v, "value")
	if err != nil {
		return err
	}
	weight, err := e.oracle.WeightAtValue(num, value)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Weight{Value: utils.U256(value), Weight: utils.U256(weight)})
}

// handleGetProposer returns the elected proposer, or replays the election when a seed is given.
func (e *Epochs) handleGetProposer(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	var id uint64
	if s := req.URL.Query().Get("seed"); s != "" {
		seed, err := uint256.FromHex(s)
		if err != nil {
			if seed, err = uint256.FromDecimal(s); err != nil {
				return utils.BadRequest(errors.WithMessage(err, "seed"))
			}
		}
		id, err = e.oracle.ElectProposer(num, seed)
		if err != nil {
			return err
		}
	} else {
		if id, err = e.oracle.Proposer(num); err != nil {
			return err
		}
	}
	return utils.WriteJSON(w, &Proposer{Epoch: num, Proposer: id})
}

func (e *Epochs) handlePropose(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	var body ProposeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	claim, err := body.percentiles()
	if err != nil {
		return err
	}
	p, err := e.oracle.Propose(num, body.Proposer, claim)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertProposal(p))
}

func (e *Epochs) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	p, err := e.oracle.Result(num)
	if err != nil {
		return err
	}
	if p == nil {
		return utils.NotFound(errors.New("proposal not found"))
	}
	return utils.WriteJSON(w, convertProposal(p))
}

func (e *Epochs) handleSubmitSlice(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	var body SliceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	values := make([]*uint256.Int, len(body.Values))
	for i, v := range body.Values {
		if values[i], err = utils.ParseU256(v, fmt.Sprintf("values[%d]", i)); err != nil {
			return err
		}
	}
	cursor, err := e.oracle.SubmitSortedSlice(num, body.Disputer, values, body.Final)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertCursor(cursor))
}

func (e *Epochs) handleGetCursor(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	cursor, err := e.oracle.Cursor(num, *addr)
	if err != nil {
		return err
	}
	if cursor == nil {
		return utils.NotFound(errors.New("cursor not found"))
	}
	return utils.WriteJSON(w, convertCursor(cursor))
}

func (e *Epochs) handleGetCompletedCursors(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	disputers, err := e.oracle.CompletedCursors(num)
	if err != nil {
		return err
	}
	if disputers == nil {
		disputers = []thor.Address{}
	}
	return utils.WriteJSON(w, disputers)
}

func (e *Epochs) handleChallenge(w http.ResponseWriter, req *http.Request) error {
	num, err := parseEpoch(req)
	if err != nil {
		return err
	}
	var body ChallengeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	outcome, err := e.oracle.Challenge(num, body.Disputer)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertOutcome(outcome))
}

// Mount registers the clock routes under clockPrefix and the per-epoch routes under pathPrefix.
func (e *Epochs) Mount(root *mux.Router, pathPrefix, clockPrefix string) {
	clock := root.PathPrefix(clockPrefix).Subrouter()
	clock.Path("").
		Methods(http.MethodGet).
		Name("clock_get_clock").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetClock))
	clock.Path("/advance").
		Methods(http.MethodPost).
		Name("clock_advance").
		HandlerFunc(utils.WrapHandlerFunc(e.handleAdvance))

	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{epoch}/commitments").
		Methods(http.MethodPost).
		Name("epochs_commit").
		HandlerFunc(utils.WrapHandlerFunc(e.handleCommit))
	sub.Path("/{epoch}/commitments/{id}").
		Methods(http.MethodGet).
		Name("epochs_get_commitment").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetCommitment))
	sub.Path("/{epoch}/votes").
		Methods(http.MethodPost).
		Name("epochs_reveal").
		HandlerFunc(utils.WrapHandlerFunc(e.handleReveal))
	sub.Path("/{epoch}/votes/{id}").
		Methods(http.MethodGet).
		Name("epochs_get_vote").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetVote))
	sub.Path("/{epoch}/tally").
		Methods(http.MethodGet).
		Name("epochs_get_tally").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetTally))
	sub.Path("/{epoch}/weights/{value}").
		Methods(http.MethodGet).
		Name("epochs_get_weight").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetWeight))
	sub.Path("/{epoch}/proposer").
		Methods(http.MethodGet).
		Name("epochs_get_proposer").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetProposer))
	sub.Path("/{epoch}/proposal").
		Methods(http.MethodPost).
		Name("epochs_propose").
		HandlerFunc(utils.WrapHandlerFunc(e.handlePropose))
	sub.Path("/{epoch}/proposal").
		Methods(http.MethodGet).
		Name("epochs_get_proposal").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetProposal))
	sub.Path("/{epoch}/dispute/slices").
		Methods(http.MethodPost).
		Name("epochs_submit_slice").
		HandlerFunc(utils.WrapHandlerFunc(e.handleSubmitSlice))
	sub.Path("/{epoch}/dispute/cursors").
		Methods(http.MethodGet).
		Name("epochs_get_completed_cursors").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetCompletedCursors))
	sub.Path("/{epoch}/dispute/cursors/{address}").
		Methods(http.MethodGet).
		Name("epochs_get_cursor").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetCursor))
	sub.Path("/{epoch}/challenge").
		Methods(http.MethodPost).
		Name("epochs_challenge").
		HandlerFunc(utils.WrapHandlerFunc(e.handleChallenge))
}
