package web

import (
	"net/http"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
)

// videos never fails: the aggregator degrades to an empty listing.
func (a *App) videos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.VideoFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		AgeMin:   q.Get("ageMin"),
		AgeMax:   q.Get("ageMax"),
	}

	videos, err := a.Catalog.ListVideos(r.Context(), filter)
	if err != nil {
		a.logger.Warn("video listing aborted", "error", err)
	}
	if videos == nil {
		videos = []models.Video{}
	}

	w.Header().Set("Cache-Control", catalogCache)
	writeJSON(w, http.StatusOK, videos)
}

func (a *App) approvedChannels(w http.ResponseWriter, r *http.Request) {
	channels, err := a.Reference.Channels(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if channels == nil {
		channels = []models.ApprovedChannel{}
	}

	w.Header().Set("Cache-Control", referenceCache)
	writeJSON(w, http.StatusOK, channels)
}

func (a *App) contentRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := a.Reference.Ratings(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if ratings == nil {
		ratings = []models.ContentRating{}
	}

	w.Header().Set("Cache-Control", referenceCache)
	writeJSON(w, http.StatusOK, ratings)
}
