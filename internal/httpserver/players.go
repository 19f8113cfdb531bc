package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"example.com/blackstars/api"
	"example.com/blackstars/internal/database"
	"github.com/julienschmidt/httprouter"
	"github.com/satori/uuid"
	log "github.com/sirupsen/logrus"
)

func (srv *HTTPServer) listPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), STORE_TIMEOUT)
	defer cancel()
	players, err := srv.players.ListPlayers(ctx)
	if err != nil {
		log.WithField(api.RequestId, r.Header.Get(api.RequestIdHeader)).Error(err)
		writeError(w, http.StatusInternalServerError, "try again later")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"num_of_players": len(players),
		"players":        players,
	})
}

func (srv *HTTPServer) createPlayer(w http.ResponseWriter, r *http.Request) {
	var player api.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if player.Name == "" || player.Age == 0 || player.JerseyNumber == 0 || player.PositionOfPlay == 0 {
		writeError(w, http.StatusBadRequest, "Request is missing required fields!")
		return
	}
	player.ID = uuid.NewV4().String()
	ctx, cancel := context.WithTimeout(r.Context(), STORE_TIMEOUT)
	defer cancel()
	if err := srv.players.InsertPlayer(ctx, &player); err != nil {
		log.WithFields(log.Fields{
			api.RequestId: r.Header.Get(api.RequestIdHeader),
			api.PlayerId:  player.ID,
		}).Error(err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if actor := identityFrom(r.Context()); actor != nil {
		log.WithFields(log.Fields{
			api.Username: actor.Username,
			api.PlayerId: player.ID,
		}).Info("Player created")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Player created successfully",
		"player":  player,
	})
}

func (srv *HTTPServer) patchPlayer(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	id := params.ByName("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, `"id" parameter absent!`)
		return
	}
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "Request body absent!")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), STORE_TIMEOUT)
	defer cancel()
	player, err := srv.players.UpdatePlayer(ctx, id, fields)
	if err != nil {
		if errors.Is(err, database.ERR_PLAYER_NOT_FOUND) {
			writeError(w, http.StatusBadRequest, "no such player")
			return
		}
		log.WithFields(log.Fields{
			api.RequestId: r.Header.Get(api.RequestIdHeader),
			api.PlayerId:  id,
		}).Error(err)
		writeError(w, http.StatusInternalServerError, "try again later")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"player":  player,
	})
}
