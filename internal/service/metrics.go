package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of created bookings.",
	})

	bookingRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_rejections_total",
		Help: "Total number of rejected booking requests by reason.",
	}, []string{"reason"})

	notificationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of notifications that could not be delivered.",
	}, []string{"kind"})
)
