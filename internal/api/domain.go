package api

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/JaimeStill/campus/internal/announcements"
	"github.com/JaimeStill/campus/internal/quizzes"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Announcements announcements.System
	Quizzes       quizzes.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	var opts []announcements.Option
	if runtime.SanitizeContent {
		opts = append(opts, announcements.WithContentPolicy(bluemonday.UGCPolicy()))
	}

	announcementsSystem := announcements.New(
		announcements.NewRepository(runtime.Docstore),
		runtime.Storage,
		runtime.Logger,
		opts...,
	)

	quizzesSystem := quizzes.New(
		quizzes.NewRepository(runtime.Docstore),
		runtime.Logger,
	)

	return &Domain{
		Announcements: announcementsSystem,
		Quizzes:       quizzesSystem,
	}
}
