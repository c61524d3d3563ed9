package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// Moderation metrics
var (
	CascadeRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cascade_runs_total",
		Help: "Total number of ban cascade invocations",
	}, []string{"action", "result"})

	CascadeStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_cascade_steps_total",
		Help: "Total number of ban cascade steps executed",
	}, []string{"step", "outcome"})

	BlogBansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_blog_bans_total",
		Help: "Total number of per-blog ban/unban operations",
	}, []string{"action"})
)

// Query engine metrics
var (
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_query_duration_seconds",
		Help:    "Read-model assembly duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"view"})
)

// Business metrics (gauges updated periodically by collector)
var (
	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inkwell_users_total",
		Help: "Total number of registered users",
	})

	PostsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inkwell_posts_total",
		Help: "Total number of posts, banned included",
	})

	CommentsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inkwell_comments_total",
		Help: "Total number of comments, banned included",
	})
)

// NormalizePath maps request paths to low-cardinality metric labels.
// Dynamic id segments become :id so each route is one series.
func NormalizePath(path string) string {
	segments := splitPath(path)
	if len(segments) < 2 || segments[0] != "api" {
		return path
	}

	switch segments[1] {
	case "posts", "comments", "blogs":
		if len(segments) >= 3 {
			normalized := "/api/" + segments[1] + "/:id"
			if len(segments) > 3 {
				normalized += "/" + strings.Join(segments[3:], "/")
			}
			return normalized
		}
	case "blogger":
		if len(segments) >= 5 && segments[2] == "users" && segments[3] == "blog" {
			return "/api/blogger/users/blog/:id"
		}
		if len(segments) >= 4 && segments[2] == "users" {
			normalized := "/api/blogger/users/:id"
			if len(segments) > 4 {
				normalized += "/" + strings.Join(segments[4:], "/")
			}
			return normalized
		}
		if len(segments) == 4 && segments[2] == "blogs" && segments[3] == "comments" {
			// static blogger comment feed, not an id
			return path
		}
		if len(segments) >= 4 && segments[2] == "blogs" {
			normalized := "/api/blogger/blogs/:id"
			if len(segments) > 4 {
				normalized += "/" + strings.Join(segments[4:], "/")
			}
			return normalized
		}
	case "sa":
		if len(segments) >= 4 && segments[2] == "users" {
			normalized := "/api/sa/users/:id"
			if len(segments) > 4 {
				normalized += "/" + strings.Join(segments[4:], "/")
			}
			return normalized
		}
	}
	return path
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
