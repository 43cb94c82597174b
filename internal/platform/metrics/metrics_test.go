// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/backoffice/internal/platform/metrics"
)

/*
TestRoutePattern verifies labels use the route template, not the raw path.
*/
func TestRoutePattern(t *testing.T) {
	var seen string

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			seen = metrics.RoutePattern(r)
		})
	})
	router.Use(metrics.Instrument)
	router.Get("/packages/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/packages/abc", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "/packages/{id}", seen)
}

/*
TestRoutePattern_Unmatched verifies requests outside chi share one label.
*/
func TestRoutePattern_Unmatched(t *testing.T) {
	assert.Equal(t, "unmatched", metrics.RoutePattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

/*
TestDomainCounters verifies counters are usable without registration.
*/
func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(metrics.VersionConflicts.WithLabelValues("Test"))
	metrics.VersionConflicts.WithLabelValues("Test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.VersionConflicts.WithLabelValues("Test")))

	metrics.Init()
	metrics.Init()
}
