package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeUpstream  = "upstream_error"
	OutcomeDecode    = "decode_error"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiscope_http_requests_total",
		Help: "Requests served, by route and status code.",
	}, []string{"route", "status"})

	outboundRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiscope_outbound_requests_total",
		Help: "Calls made to outbound dependencies, by dependency and outcome.",
	}, []string{"dependency", "outcome"})
)

// Middleware counts requests by matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func ObserveOutbound(dependency, outcome string) {
	outboundRequests.WithLabelValues(dependency, outcome).Inc()
}
