package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/renato-scuola/musicflow/internal/shared"
)

func testService(t *testing.T, instances ...string) *InvidiousService {
	t.Helper()

	cfg := shared.AcquisitionConfig{
		Instances:      instances,
		TimeoutSeconds: 2,
		MaxResults:     10,
	}

	logger := log.New(io.Discard)

	return NewInvidiousService(cfg, logger)
}

func searchPayload() []invidiousVideo {
	thumb := func(id string, w, h int) []shared.Thumbnail {
		return []shared.Thumbnail{
			{URL: "https://img.example/" + id + "_small.jpg", Width: 120, Height: 90},
			{URL: "https://img.example/" + id + ".jpg", Width: w, Height: h},
		}
	}

	return []invidiousVideo{
		{
			Title:           "Daft Punk - Around the World (Official Video)",
			VideoID:         "v1",
			Author:          "DaftPunkVEVO",
			LengthSeconds:   229,
			VideoThumbnails: thumb("v1", 640, 480),
		},
		{
			Title:         "Lofi radio 24/7",
			VideoID:       "v2",
			Author:        "Radio",
			LengthSeconds: 3000,
			LiveNow:       true,
		},
		{
			Title:         "Full Concert 2024",
			VideoID:       "v3",
			Author:        "Venue",
			LengthSeconds: 5400,
		},
		{
			Title:         "[Deleted video]",
			VideoID:       "v4",
			Author:        "",
			LengthSeconds: 180,
		},
		{
			Title:           "Imagine",
			VideoID:         "v5",
			Author:          "John Lennon - Topic",
			LengthSeconds:   183,
			VideoThumbnails: thumb("v5", 320, 180),
		},
	}
}

func TestSearch(t *testing.T) {
	t.Run("blank query skips the network", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request for blank query")
		}))
		defer server.Close()

		svc := testService(t, server.URL)

		tracks, err := svc.Search(context.Background(), "   ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 0 {
			t.Errorf("expected empty result, got %d tracks", len(tracks))
		}
	})

	t.Run("filters and normalizes results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("q"); got != "daft punk" {
				t.Errorf("unexpected query %q", got)
			}
			json.NewEncoder(w).Encode(searchPayload())
		}))
		defer server.Close()

		svc := testService(t, server.URL)

		tracks, err := svc.Search(context.Background(), "daft punk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(tracks) != 2 {
			t.Fatalf("expected live, long, and deleted entries filtered, got %d tracks", len(tracks))
		}

		first := tracks[0]
		if first.Title != "Daft Punk - Around the World" {
			t.Errorf("expected cleaned title, got %q", first.Title)
		}
		if first.Artist != "Daft Punk" {
			t.Errorf("expected artist from title split, got %q", first.Artist)
		}
		if first.Duration != "3:49" {
			t.Errorf("expected formatted duration, got %q", first.Duration)
		}
		if first.Thumbnail != "https://img.example/v1.jpg" {
			t.Errorf("expected highest-resolution thumbnail, got %q", first.Thumbnail)
		}
		if first.URL != "https://www.youtube.com/watch?v=v1" {
			t.Errorf("unexpected watch URL %q", first.URL)
		}

		if tracks[1].Artist != "John Lennon" {
			t.Errorf("expected topic suffix stripped, got %q", tracks[1].Artist)
		}
	})

	t.Run("caps results at max_results", func(t *testing.T) {
		videos := make([]invidiousVideo, 20)
		for i := range videos {
			videos[i] = invidiousVideo{
				Title:         fmt.Sprintf("Song %d", i),
				VideoID:       fmt.Sprintf("v%d", i),
				Author:        "Artist",
				LengthSeconds: 200,
			}
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(videos)
		}))
		defer server.Close()

		svc := testService(t, server.URL)
		svc.maxResults = 5

		tracks, err := svc.Search(context.Background(), "song")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 5 {
			t.Errorf("expected 5 tracks, got %d", len(tracks))
		}
	})

	t.Run("rotates to the next instance on failure", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer bad.Close()

		good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(searchPayload())
		}))
		defer good.Close()

		svc := testService(t, bad.URL, good.URL)

		tracks, err := svc.Search(context.Background(), "daft punk")
		if err != nil {
			t.Fatalf("expected fallback to second instance, got %v", err)
		}
		if len(tracks) == 0 {
			t.Error("expected tracks from the healthy instance")
		}
	})

	t.Run("aggregates failure when every instance fails", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer bad.Close()

		svc := testService(t, bad.URL, bad.URL)

		_, err := svc.Search(context.Background(), "daft punk")
		if !errors.Is(err, shared.ErrAllInstancesFailed) {
			t.Errorf("expected ErrAllInstancesFailed, got %v", err)
		}
	})

	t.Run("slow instance times out", func(t *testing.T) {
		slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer slow.Close()

		svc := testService(t, slow.URL)
		svc.timeout = 20 * time.Millisecond

		var videos []invidiousVideo
		err := svc.fetch(context.Background(), slow.URL+"/api/v1/search?q=x", &videos)
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("no configured instances fails fast", func(t *testing.T) {
		svc := testService(t)

		_, err := svc.Search(context.Background(), "daft punk")
		if !errors.Is(err, shared.ErrAllInstancesFailed) {
			t.Errorf("expected ErrAllInstancesFailed, got %v", err)
		}
	})
}

func TestImportPlaylist(t *testing.T) {
	t.Run("rejects non-playlist URLs", func(t *testing.T) {
		svc := testService(t, "http://irrelevant.example")

		_, err := svc.ImportPlaylist(context.Background(), "https://www.youtube.com/watch?v=abc")
		if !errors.Is(err, shared.ErrInvalidPlaylistURL) {
			t.Errorf("expected ErrInvalidPlaylistURL, got %v", err)
		}
	})

	t.Run("fetches playlist in upstream order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/playlists/PLabc123" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			json.NewEncoder(w).Encode(invidiousPlaylist{
				Title:       "Road Trip",
				Description: "Windows down",
				Videos: []invidiousVideo{
					{Title: "First", VideoID: "a", Author: "Artist", LengthSeconds: 180},
					{Title: "[Private video]", VideoID: "b", Author: "", LengthSeconds: 180},
					{Title: "Second", VideoID: "c", Author: "Artist", LengthSeconds: 200},
				},
			})
		}))
		defer server.Close()

		svc := testService(t, server.URL)

		imported, err := svc.ImportPlaylist(context.Background(), "https://music.youtube.com/playlist?list=PLabc123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if imported.Title != "Road Trip" || imported.Description != "Windows down" {
			t.Errorf("unexpected metadata: %q / %q", imported.Title, imported.Description)
		}

		if len(imported.Tracks) != 2 {
			t.Fatalf("expected private entry filtered, got %d tracks", len(imported.Tracks))
		}

		if imported.Tracks[0].ID != "a" || imported.Tracks[1].ID != "c" {
			t.Errorf("expected upstream order preserved, got %s then %s",
				imported.Tracks[0].ID, imported.Tracks[1].ID)
		}
	})
}
