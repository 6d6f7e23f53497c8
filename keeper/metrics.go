// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package keeper

import "github.com/vechain/skillstake/metrics"

var (
	metricJobCount     = metrics.LazyLoadCounterVec("keeper_job_count", []string{"job", "result"})
	metricJobProcessed = metrics.LazyLoadCounterVec("keeper_processed_count", []string{"job"})
)
