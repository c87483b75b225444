package handlers

import (
	"errors"
	"net/http"

	"github.com/vancomm/buscaminas/internal/repository"
)

func (g *GameHandler) Records(w http.ResponseWriter, r *http.Request) {
	var params RecordsParams
	if err := decodeQuery(&params, r); err != nil {
		sendError(w, g.log, http.StatusBadRequest, err)
		return
	}

	if params.Limit < 0 {
		sendError(w, g.log, http.StatusBadRequest, errors.New("limit must not be negative"))
		return
	}

	var opts []repository.RecordsOption
	if params.Difficulty != "" || params.Rows != 0 || params.Cols != 0 || params.MineCount != 0 {
		config, err := params.Config()
		if err != nil {
			sendError(w, g.log, http.StatusBadRequest, err)
			return
		}
		opts = append(opts, repository.RecordsForConfig(config))
	}
	if params.Nickname != "" {
		opts = append(opts, repository.RecordsForNickname(params.Nickname))
	}
	if params.Limit != 0 {
		opts = append(opts, repository.RecordsLimit(params.Limit))
	}

	records, err := g.store.Records(r.Context(), opts...)
	if err != nil {
		g.log.WithError(err).Error("unable to fetch records")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []repository.Record{}
	}
	sendJSONOrLog(w, g.log, http.StatusOK, records)
}
