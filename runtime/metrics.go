// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/skillstake/metrics"

var (
	metricCallCount         = metrics.LazyLoadCounterVec("runtime_call_count", []string{"op", "result"})
	metricCallDuration      = metrics.LazyLoadHistogramVec("runtime_call_duration_us", []string{"op"}, metrics.BucketCallMicros)
	metricPoolBalance       = metrics.LazyLoadGauge("pool_balance_tokens")
	metricPendingCommission = metrics.LazyLoadGauge("pool_pending_commission_tokens")
	metricUniqueUsers       = metrics.LazyLoadGauge("pool_unique_users")
)
