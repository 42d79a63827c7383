// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package oracle

import "github.com/vechain/thor-oracle/metrics"

var (
	metricCalls      = metrics.LazyLoadCounterVec("calls_total", []string{"op", "result"})
	metricCallGas    = metrics.LazyLoadHistogram("call_gas", metrics.BucketGas)
	metricEpoch      = metrics.LazyLoadGauge("epoch")
	metricTotalStake = metrics.LazyLoadGauge("total_stake")
)
