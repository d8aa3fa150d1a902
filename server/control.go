package server

import (
	"errors"
	"net/http"

	"pushrelay/pkg/api"
	relayerr "pushrelay/pkg/errors"
	"pushrelay/pkg/logger"
	"pushrelay/pkg/protocol"
	"pushrelay/pkg/routing"

	"github.com/gin-gonic/gin"
)

// handlePushEvent is the control-plane entry point: it validates the request
// and hands the target to the routing engine. No routing is attempted for an
// invalid request.
func (s *Server) handlePushEvent(c *gin.Context) {
	var req protocol.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondError(c, http.StatusBadRequest, relayerr.ErrValidation.Error())
		return
	}

	if !req.Valid() {
		api.RespondError(c, http.StatusBadRequest, relayerr.ErrValidation.Error())
		return
	}

	res, err := s.router.Route(req.Email, req.Event, req.Data)

	log := logger.Get()
	switch res.Outcome {
	case routing.OutcomeDirect:
		log.InfoWith("event routed to client", "target", req.Email, "event", req.Event, "failed", res.Failed)
		api.RespondSuccess(c, gin.H{
			"email":     req.Email,
			"event":     req.Event,
			"eventData": req.Data,
		}, res.Outcome.String())

	case routing.OutcomeRoom:
		log.InfoWith("event routed to room", "roomID", req.Email, "event", req.Event, "delivered", res.Delivered, "failed", res.Failed)
		api.RespondSuccess(c, gin.H{
			"roomId":    req.Email,
			"event":     req.Event,
			"eventData": req.Data,
			"delivered": res.Delivered,
		}, res.Outcome.String())

	default:
		if err != nil && !errors.Is(err, relayerr.ErrTargetNotFound) {
			log.ErrorWithErr("routing failed", err, "target", req.Email)
			api.RespondError(c, http.StatusInternalServerError, api.ErrInternalServer)
			return
		}
		log.InfoWith("routing target not found", "target", req.Email, "event", req.Event)
		api.RespondError(c, http.StatusNotFound, relayerr.ErrTargetNotFound.Error())
	}
}
