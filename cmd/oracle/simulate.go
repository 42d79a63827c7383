// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/thor-oracle/beacon"
	"github.com/vechain/thor-oracle/builtin/arbiter"
	"github.com/vechain/thor-oracle/builtin/ballot"
	"github.com/vechain/thor-oracle/builtin/dispute"
	"github.com/vechain/thor-oracle/builtin/epoch"
	"github.com/vechain/thor-oracle/builtin/reverts"
	"github.com/vechain/thor-oracle/lvldb"
	"github.com/vechain/thor-oracle/oracle"
	"github.com/vechain/thor-oracle/resultdb"
	"github.com/vechain/thor-oracle/thor"
)

type ScenarioStaker struct {
	Stake uint64 `yaml:"stake"`
	Value uint64 `yaml:"value"`
}

type ScenarioProposal struct {
	Median    uint64 `yaml:"median"`
	TwoFive   uint64 `yaml:"two-five"`
	SevenFive uint64 `yaml:"seven-five"`
}

// Scenario describes one epoch. Without a proposal the elected proposer claims the
// verified percentiles. Without a seed the VRF beacon draws it.
type Scenario struct {
	Seed      *uint64           `yaml:"seed"`
	SliceSize int               `yaml:"slice-size"`
	Disputer  *int              `yaml:"disputer"`
	Stakers   []ScenarioStaker  `yaml:"stakers"`
	Proposal  *ScenarioProposal `yaml:"proposal"`
	Oracle    *oracle.Config    `yaml:"oracle"`
}

func parseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	if len(sc.Stakers) == 0 {
		return nil, errors.New("scenario has no stakers")
	}
	if sc.SliceSize <= 0 {
		sc.SliceSize = 16
	}
	if sc.Disputer != nil && (*sc.Disputer < 0 || *sc.Disputer >= len(sc.Stakers)) {
		return nil, errors.Errorf("disputer index %d out of range", *sc.Disputer)
	}
	return &sc, nil
}

// Report is the outcome of a simulated epoch.
type Report struct {
	Proposer    uint64
	Disputer    thor.Address
	Slices      int
	Verified    *dispute.Percentiles
	Claimed     *dispute.Percentiles
	Outcome     *arbiter.Outcome
	Result      *arbiter.Proposal
	TotalStake  *uint256.Int
	GasExceeded bool
}

type simStaker struct {
	addr   thor.Address
	id     uint64
	value  *uint256.Int
	secret thor.Bytes32
}

func stakerAddress(i int) thor.Address {
	return thor.BytesToAddress(thor.Keccak256([]byte("simulated-staker"), thor.EpochBytes(uint64(i))).Bytes())
}

// runScenario plays epoch 1 of sc against a fresh in-memory oracle.
func runScenario(sc *Scenario, b beacon.Beacon, db *resultdb.ResultDB, progress io.Writer) (*Report, error) {
	config := oracle.DefaultConfig()
	if sc.Oracle != nil {
		config = *sc.Oracle
	}
	var opts []oracle.Option
	if db != nil {
		opts = append(opts, oracle.WithResultDB(db))
	}
	o, err := oracle.New(lvldb.NewMem(), b, config, opts...)
	if err != nil {
		return nil, err
	}

	stakers := make([]*simStaker, len(sc.Stakers))
	for i, s := range sc.Stakers {
		st := &simStaker{
			addr:   stakerAddress(i),
			value:  uint256.NewInt(s.Value),
			secret: thor.Blake2b([]byte("simulated-secret"), thor.EpochBytes(uint64(i))),
		}
		amount := uint256.NewInt(s.Stake)
		if err := o.Mint(st.addr, amount); err != nil {
			return nil, err
		}
		if st.id, err = o.Join(st.addr); err != nil {
			return nil, err
		}
		if !amount.IsZero() {
			if err := o.IncreaseStake(st.id, amount); err != nil {
				return nil, err
			}
		}
		stakers[i] = st
	}

	num := thor.FirstEpoch
	var voters []*simStaker
	for _, st := range stakers {
		err := o.Commit(num, st.addr, ballot.CommitmentHash(st.secret, st.value, st.addr))
		if errors.Is(err, reverts.NotStaked) {
			continue
		}
		if err != nil {
			return nil, err
		}
		voters = append(voters, st)
	}
	if _, err := o.AdvancePhase(num, epoch.Commit); err != nil {
		return nil, err
	}
	values := make([]*uint256.Int, 0, len(voters))
	for _, st := range voters {
		if _, err := o.Reveal(num, st.addr, st.value, st.secret); err != nil {
			return nil, err
		}
		values = append(values, st.value)
	}
	tr, err := o.AdvancePhase(num, epoch.Reveal)
	if err != nil {
		return nil, err
	}

	report := &Report{Proposer: tr.Proposer}
	if tr.Proposer == 0 {
		if _, err := o.AdvancePhase(num, epoch.Dispute); err != nil {
			return nil, err
		}
		return report, nil
	}
	proposer, err := o.Staker(tr.Proposer)
	if err != nil {
		return nil, err
	}

	disputer := pickDisputer(sc, stakers, proposer.Address)
	report.Disputer = disputer.addr

	// the sorted vote set, each value once
	slices.SortFunc(values, func(a, b *uint256.Int) int { return a.Cmp(b) })
	values = slices.CompactFunc(values, func(a, b *uint256.Int) bool { return a.Eq(b) })

	bar := pb.New64(int64(len(values))).
		Set64(0).
		SetMaxWidth(90)
	bar.Output = progress
	bar.Start()
	defer func() { bar.NotPrint = true }()

	var cursor *dispute.Cursor
	for start := 0; start < len(values); start += sc.SliceSize {
		end := min(start+sc.SliceSize, len(values))
		cursor, err = o.SubmitSortedSlice(num, disputer.addr, values[start:end], end == len(values))
		if err != nil {
			if errors.Is(err, reverts.OutOfGas) {
				report.GasExceeded = true
			}
			return report, errors.WithMessagef(err, "slice [%d, %d)", start, end)
		}
		report.Slices++
		bar.Add64(int64(end - start))
	}
	bar.Finish()
	report.Verified = cursor.Percentiles()

	claim := report.Verified
	if sc.Proposal != nil {
		claim = &dispute.Percentiles{
			Median:    uint256.NewInt(sc.Proposal.Median),
			TwoFive:   uint256.NewInt(sc.Proposal.TwoFive),
			SevenFive: uint256.NewInt(sc.Proposal.SevenFive),
		}
	}
	report.Claimed = claim
	if _, err := o.Propose(num, proposer.Address, claim); err != nil {
		return report, err
	}

	if !claim.Equal(report.Verified) {
		if report.Outcome, err = o.Challenge(num, disputer.addr); err != nil {
			return report, err
		}
	}

	end, err := o.AdvancePhase(num, epoch.Dispute)
	if err != nil {
		return report, err
	}
	report.Result = end.Result
	if report.TotalStake, err = o.TotalStake(); err != nil {
		return report, err
	}
	return report, nil
}

// pickDisputer returns the configured disputer, or the first staker that is not the proposer.
func pickDisputer(sc *Scenario, stakers []*simStaker, proposer thor.Address) *simStaker {
	if sc.Disputer != nil {
		return stakers[*sc.Disputer]
	}
	for _, st := range stakers {
		if st.addr != proposer {
			return st
		}
	}
	return stakers[0]
}

func printReport(w io.Writer, r *Report) {
	if r.Proposer == 0 {
		fmt.Fprintln(w, "no stake, epoch closed without a proposer")
		return
	}
	fmt.Fprintf(w, `Epoch %v
    Proposer     [ #%v ]
    Disputer     [ %v in %v slices ]
    Verified     [ median %v, p25 %v, p75 %v ]
    Claimed      [ median %v, p25 %v, p75 %v ]
`,
		thor.FirstEpoch,
		r.Proposer,
		r.Disputer, r.Slices,
		r.Verified.Median.Dec(), r.Verified.TwoFive.Dec(), r.Verified.SevenFive.Dec(),
		r.Claimed.Median.Dec(), r.Claimed.TwoFive.Dec(), r.Claimed.SevenFive.Dec())
	if r.Outcome != nil {
		fmt.Fprintf(w, "    Challenge    [ slashed %v, reward %v, burned %v ]\n",
			r.Outcome.Slashed.Dec(), r.Outcome.Reward.Dec(), r.Outcome.Burned.Dec())
	} else {
		fmt.Fprintln(w, "    Challenge    [ none, proposal confirmed ]")
	}
	if r.Result != nil {
		fmt.Fprintf(w, "    Result       [ median %v, p25 %v, p75 %v, finalized %v ]\n",
			r.Result.Median.Dec(), r.Result.TwoFive.Dec(), r.Result.SevenFive.Dec(), r.Result.Finalized)
	}
	fmt.Fprintf(w, "    Total stake  [ %v ]\n", r.TotalStake.Dec())
}

func simulateAction(ctx *cli.Context) error {
	initLogger(ctx.Int(verbosityFlag.Name))

	path := ctx.String(scenarioFlag.Name)
	if path == "" {
		return errors.New("missing --scenario")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read scenario")
	}
	sc, err := parseScenario(data)
	if err != nil {
		return err
	}

	var b beacon.Beacon
	if sc.Seed != nil {
		b = beacon.Fixed(uint256.NewInt(*sc.Seed))
	} else {
		key, err := loadBeaconKey(&BeaconConfig{Key: ctx.String(beaconKeyFlag.Name)})
		if err != nil {
			return err
		}
		b = beacon.NewVRF(key)
	}

	var db *resultdb.ResultDB
	if dbPath := ctx.String(persistResultsFlag.Name); dbPath != "" {
		if db, err = resultdb.New(dbPath); err != nil {
			return err
		}
		defer db.Close()
	}

	fmt.Println(">> Simulating epoch <<")
	report, err := runScenario(sc, b, db, os.Stdout)
	if err != nil {
		return err
	}
	printReport(os.Stdout, report)

	if db != nil {
		latest, err := db.Latest(context.Background())
		if err != nil {
			return err
		}
		if latest != nil {
			fmt.Printf("    Recorded     [ epoch %v in %v ]\n", latest.Epoch, db.Path())
		}
	}
	return nil
}
