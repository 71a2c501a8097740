package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guessgame_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	refreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guessgame_token_refreshes_total",
		Help: "Total number of successful token refreshes.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guessgame_token_verifications_total",
			Help: "Total number of token verification attempts by type and status.",
		},
		[]string{"type", "status"},
	)

	gamesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guessgame_games_started_total",
		Help: "Total number of game sessions started.",
	})

	questionsAskedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guessgame_questions_asked_total",
			Help: "Total number of questions asked, by answer source.",
		},
		[]string{"source"},
	)

	guessesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guessgame_guesses_total",
			Help: "Total number of submitted guesses by outcome.",
		},
		[]string{"outcome"},
	)

	contactMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guessgame_contact_messages_total",
		Help: "Total number of contact form submissions forwarded.",
	})
)
