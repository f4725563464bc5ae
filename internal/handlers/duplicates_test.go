package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"song-deduper/internal/dedup"
	"song-deduper/internal/report"
	"song-deduper/internal/service"
	"song-deduper/internal/service/mocks"
)

func TestLibraryHandler_HashDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lib := mocks.NewMockLibraryService(ctrl)
	lib.EXPECT().Summary(gomock.Any()).Return(service.Summary{Root: "/music", Prefix: "mac_", Entries: 3})
	lib.EXPECT().HashDuplicates(gomock.Any()).Return([]dedup.Report[string]{{
		Key: "abc",
		Rows: []dedup.SimilarityRow{
			{Path: "/music/a.mp3", Scores: []float64{}},
			{Path: "/music/sub/a copy.mp3", Scores: []float64{1}},
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/duplicates/hash", nil)
	w := httptest.NewRecorder()
	NewLibraryHandler(lib).HashDuplicates(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("HashDuplicates() status = %v, want %v", w.Code, http.StatusOK)
	}
	var resp DuplicatesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Entries != 3 || len(resp.Groups) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	rows := resp.Groups[0].Rows
	if rows[0].Path != "a.mp3" || rows[1].Path != "sub/a copy.mp3" {
		t.Errorf("paths = %q, %q, want relative to root", rows[0].Path, rows[1].Path)
	}
	if len(rows[1].Scores) != 1 || rows[1].Scores[0] != 1 {
		t.Errorf("scores = %v, want [1]", rows[1].Scores)
	}
}

func TestLibraryHandler_TagDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lib := mocks.NewMockLibraryService(ctrl)
	lib.EXPECT().Summary(gomock.Any()).Return(service.Summary{Root: "/music", Entries: 2})
	lib.EXPECT().TagDuplicates(gomock.Any()).Return([]dedup.Report[dedup.TagKey]{{
		Key: dedup.TagKey{Artist: "A", Title: "X", HasArtist: true, HasTitle: true},
		Rows: []dedup.SimilarityRow{
			{Path: "/music/a.mp3", Scores: []float64{}},
			{Path: "/music/b.m4a", Scores: []float64{0.5}},
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/duplicates/tags", nil)
	w := httptest.NewRecorder()
	NewLibraryHandler(lib).TagDuplicates(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("TagDuplicates() status = %v, want %v", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"b.m4a"`) {
		t.Errorf("body = %s, want relative path b.m4a", w.Body.String())
	}
}

func TestLibraryHandler_Missing(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		missing    []dedup.TagKey
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "lists missing songs",
			reference:  "pc_",
			missing:    []dedup.TagKey{{Artist: "C", Title: "Z", HasArtist: true, HasTitle: true}},
			wantStatus: http.StatusOK,
			wantBody:   `"artist":"C"`,
		},
		{
			name:       "nothing missing is an empty list",
			reference:  "pc_",
			wantStatus: http.StatusOK,
			wantBody:   `"missing":[]`,
		},
		{
			name:       "validation error",
			reference:  "",
			err:        &service.ValidationError{Field: "reference", Message: "is required"},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Validation error",
		},
		{
			name:       "unknown reference",
			reference:  "nas_",
			err:        fmt.Errorf("load nas_: %w", service.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "not found",
		},
		{
			name:       "corrupt reference",
			reference:  "bad_",
			err:        fmt.Errorf("load bad_: %w", service.ErrCorrupt),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "corrupt",
		},
		{
			name:       "backend failure",
			reference:  "pc_",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Failed to compare collections",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			lib := mocks.NewMockLibraryService(ctrl)
			lib.EXPECT().Missing(gomock.Any(), tt.reference).Return(tt.missing, tt.err)
			if tt.err == nil {
				lib.EXPECT().Summary(gomock.Any()).Return(service.Summary{Prefix: "mac_"})
			}

			req := httptest.NewRequest(http.MethodGet, "/api/missing?reference="+tt.reference, nil)
			w := httptest.NewRecorder()
			NewLibraryHandler(lib).Missing(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Missing() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("Missing() body = %s, want it to contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestLibraryHandler_Page(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lib := mocks.NewMockLibraryService(ctrl)
	lib.EXPECT().Document(gomock.Any()).Return(report.Document{
		Root:    "/music",
		Entries: 2,
		Hash: []dedup.Report[string]{{
			Key: "abc",
			Rows: []dedup.SimilarityRow{
				{Path: "/music/a.mp3", Scores: []float64{}},
				{Path: "/music/b.mp3", Scores: []float64{1}},
			},
		}},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	NewLibraryHandler(lib).Page(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Page() status = %v, want %v", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "<table>") || !strings.Contains(body, "b.mp3") {
		t.Errorf("Page() body missing report table: %s", body)
	}
}
