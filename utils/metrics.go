package utils

import (
	"expvar"
)

var TransformRequestsTotal = expvar.NewInt("transform_requests_total")
var TransformsCreatedTotal = expvar.NewInt("transforms_created_total")
var TransformsReusedTotal = expvar.NewInt("transforms_reused_total")
var TransformFailuresTotal = expvar.NewInt("transform_failures_total")
