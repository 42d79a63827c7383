// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resultdb

import (
	"context"
	"database/sql"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/thor"
)

// ResultDB keeps the history of finalized epoch results.
type ResultDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open result db at given path.
func New(path string) (resultDB *ResultDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if resultDB == nil {
			db.Close()
		}
	}()
	// an in-memory database lives and dies with its connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(resultTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &ResultDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a result db in ram.
func NewMem() (*ResultDB, error) {
	return New(":memory:")
}

// Close close the result db.
func (db *ResultDB) Close() error {
	return db.db.Close()
}

func (db *ResultDB) Path() string {
	return db.path
}

func (db *ResultDB) DriverVersion() string {
	return db.driverVersion
}

// Insert stores r, replacing any earlier result of the same epoch.
func (db *ResultDB) Insert(ctx context.Context, r *Result) error {
	var challenger []byte
	if r.Challenged {
		challenger = r.Challenger.Bytes()
	}
	_, err := db.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO result(epoch, proposer, median, twoFive, sevenFive, challenged, challenger, voters, totalWeight, finalizedAt) VALUES(?,?,?,?,?,?,?,?,?,?)",
		r.Epoch,
		r.Proposer,
		u256Bytes(r.Median),
		u256Bytes(r.TwoFive),
		u256Bytes(r.SevenFive),
		r.Challenged,
		challenger,
		r.Voters,
		u256Bytes(r.TotalWeight),
		r.FinalizedAt,
	)
	return errors.Wrap(err, "insert result")
}

// Get returns the result of epoch, nil if it was not finalized.
func (db *ResultDB) Get(ctx context.Context, epoch uint64) (*Result, error) {
	results, err := db.query(ctx, "SELECT * FROM result WHERE epoch = ?", epoch)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Filter returns the results in the requested range.
func (db *ResultDB) Filter(ctx context.Context, f *Filter) ([]*Result, error) {
	if f == nil {
		return db.query(ctx, "SELECT * FROM result ORDER BY epoch ASC")
	}
	var args []any
	stmt := "SELECT * FROM result WHERE epoch >= ?"
	args = append(args, f.From)
	if f.To > 0 {
		stmt += " AND epoch <= ?"
		args = append(args, f.To)
	}
	if f.Order == DESC {
		stmt += " ORDER BY epoch DESC"
	} else {
		stmt += " ORDER BY epoch ASC"
	}
	if f.Limit > 0 {
		stmt += " LIMIT ?, ?"
		args = append(args, f.Offset, f.Limit)
	}
	return db.query(ctx, stmt, args...)
}

// Latest returns the result of the highest finalized epoch, nil if none.
func (db *ResultDB) Latest(ctx context.Context) (*Result, error) {
	results, err := db.Filter(ctx, &Filter{Order: DESC, Limit: 1})
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[0], nil
}

func (db *ResultDB) query(ctx context.Context, stmt string, args ...any) ([]*Result, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query results")
	}
	defer rows.Close()

	var results []*Result
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			r          Result
			median     []byte
			twoFive    []byte
			sevenFive  []byte
			challenger []byte
			weight     []byte
		)
		if err := rows.Scan(
			&r.Epoch,
			&r.Proposer,
			&median,
			&twoFive,
			&sevenFive,
			&r.Challenged,
			&challenger,
			&r.Voters,
			&weight,
			&r.FinalizedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan result")
		}
		r.Median = new(uint256.Int).SetBytes(median)
		r.TwoFive = new(uint256.Int).SetBytes(twoFive)
		r.SevenFive = new(uint256.Int).SetBytes(sevenFive)
		r.TotalWeight = new(uint256.Int).SetBytes(weight)
		if len(challenger) > 0 {
			r.Challenger = thor.BytesToAddress(challenger)
		}
		results = append(results, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate results")
	}
	return results, nil
}

func u256Bytes(v *uint256.Int) []byte {
	if v == nil {
		v = new(uint256.Int)
	}
	b := v.Bytes32()
	return b[:]
}
