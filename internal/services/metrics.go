package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	votesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottakes_votes_total",
		Help: "Vote actions applied to sauces, by outcome.",
	}, []string{"outcome"})

	voteConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hottakes_vote_conflicts_total",
		Help: "Vote writes retried after a concurrent update.",
	})
)
