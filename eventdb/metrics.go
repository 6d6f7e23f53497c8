// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/vechain/skillstake/metrics"
)

var (
	metricEventsInserted    = metrics.LazyLoadCounter("eventdb_inserted_count")
	metricQueryParameters   = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter = metrics.LazyLoadCounterVec("eventdb_query_order", []string{"order"})
	metricLimitBucket       = metrics.LazyLoadHistogram("eventdb_query_limit_bucket", []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *Filter) {
	if metrics.NoOp() {
		return
	}

	paramsUsed := make([]string, 0, 4)
	if filter.Address != nil {
		paramsUsed = append(paramsUsed, "address")
	}
	if filter.User != nil {
		paramsUsed = append(paramsUsed, "user")
	}
	if len(filter.Names) > 0 {
		paramsUsed = append(paramsUsed, "names")
	}
	if filter.Range != nil {
		paramsUsed = append(paramsUsed, "range")
	}
	if len(paramsUsed) > 0 {
		metricQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})
	}

	order := "asc"
	if filter.Order == DESC {
		order = "desc"
	}
	metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": order})
	if filter.Options != nil {
		metricLimitBucket().Observe(int64(filter.Options.Limit))
	}
}
