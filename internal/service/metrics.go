package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	refreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_refreshes_total",
			Help: "Total number of refresh token rotations",
		},
		[]string{"result"},
	)

	reuseDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_reuse_detected_total",
			Help: "Total number of refresh token reuse detections",
		},
	)
)
