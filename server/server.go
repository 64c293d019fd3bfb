// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package server exposes complaints and their hotspots over a JSON HTTP API.
package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/hotmap/complaints"
	"github.com/jcodagnone/hotmap/hotspot"
	"github.com/jcodagnone/hotmap/spatial"
)

// DefaultMaxPoints caps the complaints loaded by a single request.
const DefaultMaxPoints = 5000

// Server serves the hotmap API. It is safe for concurrent use.
type Server struct {
	repo      complaints.ComplaintRepository
	clusterer *hotspot.Clusterer
	maxPoints int
}

// NewServer creates a server. A nil clusterer uses the default options and a
// non positive maxPoints uses DefaultMaxPoints.
func NewServer(repo complaints.ComplaintRepository, clusterer *hotspot.Clusterer, maxPoints int) (*Server, error) {
	if clusterer == nil {
		var err error

		clusterer, err = hotspot.NewClusterer(hotspot.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("creating clusterer: %w", err)
		}
	}

	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}

	return &Server{repo: repo, clusterer: clusterer, maxPoints: maxPoints}, nil
}

// Router returns a gin engine with every API route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	api.GET("/complaints/locations", s.listLocations)
	api.GET("/complaints/progress", s.getProgress)
	api.POST("/complaints", s.ingestComplaints)
	api.GET("/hotspots", s.getHotspots)
	api.GET("/hotspots/legend", s.getLegend)

	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("📍 Serving hotmap API on http://%s/api", addr)

	return s.Router().Run(addr)
}

func errorResponse(ctx *gin.Context, status int, format string, args ...any) {
	ctx.JSON(status, gin.H{"success": false, "message": fmt.Sprintf(format, args...)})
}

func parseTime(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s parameter, expected RFC 3339: %w", name, err)
	}

	return t, nil
}

// parseFilter reads the location filter from the query string. The limit is
// always capped to the server maximum.
func (s *Server) parseFilter(ctx *gin.Context) (complaints.LocationFilter, error) {
	filter := complaints.LocationFilter{
		District: strings.TrimSpace(ctx.Query("district")),
		Status:   strings.TrimSpace(ctx.Query("status")),
		Limit:    s.maxPoints,
	}

	var err error

	if filter.Since, err = parseTime("since", ctx.Query("since")); err != nil {
		return filter, err
	}

	if filter.Until, err = parseTime("until", ctx.Query("until")); err != nil {
		return filter, err
	}

	if !filter.Since.IsZero() && !filter.Until.IsZero() && !filter.Since.Before(filter.Until) {
		return filter, errors.New("since must be before until")
	}

	if bbox := ctx.Query("bbox"); bbox != "" {
		if filter.Viewport, err = spatial.ParseViewport(bbox); err != nil {
			return filter, err
		}
	}

	if cell := ctx.Query("cell"); cell != "" {
		if filter.Cell, err = spatial.ParseCell(cell); err != nil {
			return filter, err
		}
	}

	if limit := ctx.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return filter, fmt.Errorf("invalid limit parameter: %q", limit)
		}

		filter.Limit = min(n, s.maxPoints)
	}

	return filter, nil
}

func (s *Server) loadLocations(ctx *gin.Context) ([]hotspot.GeoPoint, bool) {
	filter, err := s.parseFilter(ctx)
	if err != nil {
		errorResponse(ctx, http.StatusBadRequest, "%v", err)

		return nil, false
	}

	locations, err := s.repo.ListLocations(ctx.Request.Context(), filter)
	if err != nil {
		log.Printf("listing locations: %v", err)
		errorResponse(ctx, http.StatusInternalServerError, "failed to list complaints")

		return nil, false
	}

	return locations, true
}

func (s *Server) listLocations(ctx *gin.Context) {
	locations, ok := s.loadLocations(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "locations": locations})
}

// ClusterResponse is a cluster ready to be drawn.
type ClusterResponse struct {
	Center     spatial.Point       `json:"center"`
	Count      int                 `json:"count"`
	Radius     float64             `json:"radius"`
	Tier       hotspot.DensityTier `json:"tier"`
	Color      string              `json:"color"`
	District   string              `json:"district"`
	Complaints []hotspot.GeoPoint  `json:"complaints,omitempty"`
}

// HotspotsResponse is the body of GET /api/hotspots.
type HotspotsResponse struct {
	Success  bool              `json:"success"`
	Total    int               `json:"total"`
	Clusters []ClusterResponse `json:"clusters"`
	Focus    hotspot.Focus     `json:"focus"`
}

// NewHotspotsResponse clusters locations and decorates every cluster with its
// radius and density tier.
func NewHotspotsResponse(clusterer *hotspot.Clusterer, locations []hotspot.GeoPoint, withComplaints bool) HotspotsResponse {
	clusters := clusterer.Build(locations)

	resp := HotspotsResponse{
		Success:  true,
		Total:    len(locations),
		Clusters: make([]ClusterResponse, 0, len(clusters)),
		Focus:    clusterer.FocusPoint(clusters),
	}

	for _, c := range clusters {
		tier := clusterer.Tier(c.Count)

		cr := ClusterResponse{
			Center:   c.Center,
			Count:    c.Count,
			Radius:   clusterer.Radius(c.Count),
			Tier:     tier.Level,
			Color:    tier.Color,
			District: c.District,
		}
		if withComplaints {
			cr.Complaints = c.Complaints
		}

		resp.Clusters = append(resp.Clusters, cr)
	}

	return resp
}

func (s *Server) getHotspots(ctx *gin.Context) {
	withComplaints := true

	if v := ctx.Query("complaints"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errorResponse(ctx, http.StatusBadRequest, "invalid complaints parameter: %q", v)

			return
		}

		withComplaints = b
	}

	locations, ok := s.loadLocations(ctx)
	if !ok {
		return
	}

	resp := NewHotspotsResponse(s.clusterer, locations, withComplaints)

	ctx.JSON(http.StatusOK, resp)
}

func (s *Server) getLegend(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"success": true, "tiers": s.clusterer.Legend()})
}

func (s *Server) getProgress(ctx *gin.Context) {
	progress, err := s.repo.Progress(ctx.Request.Context())
	if err != nil {
		log.Printf("computing progress: %v", err)
		errorResponse(ctx, http.StatusInternalServerError, "failed to compute progress")

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "progress": progress})
}

func (s *Server) ingestComplaints(ctx *gin.Context) {
	var input []hotspot.GeoPoint
	if err := ctx.ShouldBindJSON(&input); err != nil {
		errorResponse(ctx, http.StatusBadRequest, "invalid request body: %v", err)

		return
	}

	if len(input) == 0 {
		errorResponse(ctx, http.StatusBadRequest, "no complaints in request body")

		return
	}

	complaints.AssignIDs(input)

	valid, rejected := complaints.FilterValid(input)
	if len(rejected) > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("%d invalid complaints", len(rejected)),
			"errors":  rejected,
		})

		return
	}

	if err := s.repo.BulkInsert(ctx.Request.Context(), valid); err != nil {
		log.Printf("ingesting complaints: %v", err)
		errorResponse(ctx, http.StatusInternalServerError, "failed to store complaints")

		return
	}

	ids := make([]string, 0, len(valid))
	for _, c := range valid {
		ids = append(ids, c.ID)
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "imported": len(valid), "ids": ids})
}
