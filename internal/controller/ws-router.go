package controller

import (
	"github.com/soundlab/server/pkg/wsrouter"
)

func (c *controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New(
		wsrouter.WithValidator(c.validate.Check),
		wsrouter.WithLogger(c.logger),
	)
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw(), c.authWSMw())

	// room
	wsrouter.Handle(mux, "JOIN_ROOM", c.handleJoinRoom)

	// queue
	wsrouter.Handle(mux, "VOTE_VIDEO", c.handleVoteVideo)

	// player
	wsrouter.Handle(mux, "REQUEST_NEXT_VIDEO", c.handleRequestNextVideo)
	wsrouter.Handle(mux, "PLAYBACK_CHANGE", c.handlePlaybackChange)

	return mux
}
