// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package results

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/thor-oracle/api/utils"
	"github.com/vechain/thor-oracle/resultdb"
)

type Results struct {
	db    *resultdb.ResultDB
	limit uint64
}

func New(db *resultdb.ResultDB, limit uint64) *Results {
	return &Results{
		db,
		limit,
	}
}

func (r *Results) handleFilterResults(w http.ResponseWriter, req *http.Request) error {
	var filter ResultFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Order != "" && filter.Order != resultdb.ASC && filter.Order != resultdb.DESC {
		return utils.BadRequest(fmt.Errorf("order: must be %q or %q", resultdb.ASC, resultdb.DESC))
	}
	f := &resultdb.Filter{Order: filter.Order, Limit: r.limit}
	if filter.Options != nil {
		if filter.Options.Limit > r.limit {
			return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", r.limit))
		}
		f.Offset = filter.Options.Offset
		if filter.Options.Limit > 0 {
			f.Limit = filter.Options.Limit
		}
	}
	if filter.Range != nil {
		if filter.Range.From != nil {
			f.From = *filter.Range.From
		}
		if filter.Range.To != nil {
			if *filter.Range.To < f.From {
				return utils.BadRequest(fmt.Errorf("range.to must be greater than or equal to range.from"))
			}
			f.To = *filter.Range.To
		}
	}

	results, err := r.db.Filter(req.Context(), f)
	if err != nil {
		return err
	}
	out := make([]*Result, len(results))
	for i, res := range results {
		out[i] = convertResult(res)
	}
	return utils.WriteJSON(w, out)
}

func (r *Results) handleGetResult(w http.ResponseWriter, req *http.Request) error {
	var (
		res *resultdb.Result
		err error
	)
	if s := mux.Vars(req)["epoch"]; s == "latest" {
		res, err = r.db.Latest(req.Context())
	} else {
		num, perr := utils.ParseUint64(s, "epoch")
		if perr != nil {
			return perr
		}
		res, err = r.db.Get(req.Context(), num)
	}
	if err != nil {
		return err
	}
	if res == nil {
		return utils.NotFound(errors.New("result not found"))
	}
	return utils.WriteJSON(w, convertResult(res))
}

func (r *Results) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("results_filter").
		HandlerFunc(utils.WrapHandlerFunc(r.handleFilterResults))
	sub.Path("/{epoch}").
		Methods(http.MethodGet).
		Name("results_get_result").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetResult))
}
