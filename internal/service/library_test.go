package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"song-deduper/internal/errkind"
	"song-deduper/internal/fingerprint"
	"song-deduper/internal/library"
	"song-deduper/internal/storage"
	"song-deduper/internal/storage/mocks"
)

func strPtr(s string) *string { return &s }

func tagged(hash, artist, title string) library.MusicRecord {
	return library.MusicRecord{ContentHash: hash, Artist: strPtr(artist), Title: strPtr(title)}
}

func newService(t *testing.T) (LibraryService, storage.Store) {
	t.Helper()
	blobs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	local := library.NewRecordStore()
	local.Put("/mac/a.mp3", tagged("h1", "A", "X"))
	local.Put("/mac/a copy.mp3", tagged("h1", "A", "X"))
	local.Put("/mac/b.m4a", tagged("h2", "B", "Y"))
	return NewLibraryService("/mac", "mac_", local, blobs, fingerprint.Comparator{}), blobs
}

func TestLibraryService_Duplicates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if got := svc.Summary(ctx); got.Entries != 3 || got.Prefix != "mac_" || got.Root != "/mac" {
		t.Errorf("Summary() = %+v", got)
	}
	hash := svc.HashDuplicates(ctx)
	if len(hash) != 1 || hash[0].Key != "h1" || len(hash[0].Rows) != 2 {
		t.Errorf("HashDuplicates() = %+v", hash)
	}
	tags := svc.TagDuplicates(ctx)
	if len(tags) != 1 || tags[0].Key.Artist != "A" {
		t.Errorf("TagDuplicates() = %+v", tags)
	}
	if doc := svc.Document(ctx); doc.Root != "/mac" || len(doc.Hash) != 1 || len(doc.Tags) != 1 {
		t.Errorf("Document() = %+v", doc)
	}
}

func TestLibraryService_Missing(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newService(t)

	reference := library.NewRecordStore()
	reference.Put("/pc/a.mp3", tagged("h1", "A", "X"))
	reference.Put("/pc/c.mp3", tagged("h3", "C", "Z"))
	if err := library.NewRepository(blobs, "pc_").Save(ctx, reference, library.NewMeta("/pc")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := blobs.Put(ctx, storage.RecordsKey("bad_"), []byte("garbage")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	tests := []struct {
		name      string
		reference string
		wantKeys  []string
		wantErr   error
	}{
		{name: "reports missing keys", reference: "pc_", wantKeys: []string{"C - Z"}},
		{name: "empty reference", reference: "  ", wantErr: ErrInvalidInput},
		{name: "same prefix", reference: "mac_", wantErr: ErrInvalidInput},
		{name: "unknown prefix", reference: "nas_", wantErr: ErrNotFound},
		{name: "corrupt reference", reference: "bad_", wantErr: ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Missing(ctx, tt.reference)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Missing() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Missing() error = %v", err)
			}
			if len(got) != len(tt.wantKeys) {
				t.Fatalf("Missing() = %v, want %v", got, tt.wantKeys)
			}
			for i, k := range got {
				if k.String() != tt.wantKeys[i] {
					t.Errorf("Missing()[%d] = %q, want %q", i, k.String(), tt.wantKeys[i])
				}
			}
		})
	}
}

func TestLibraryService_Missing_CorruptKeepsCause(t *testing.T) {
	ctx := context.Background()
	svc, blobs := newService(t)
	_ = blobs.Put(ctx, storage.RecordsKey("pc_"), []byte("{"))

	_, err := svc.Missing(ctx, "pc_")
	if !errors.Is(err, errkind.ErrCacheCorruption) {
		t.Errorf("Missing() error = %v, want it to wrap ErrCacheCorruption", err)
	}
}

func TestLibraryService_Missing_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	blobs := mocks.NewMockStore(ctrl)
	blobs.EXPECT().Get(gomock.Any(), "pc_music_datas").Return(nil, errors.New("connection refused"))

	svc := NewLibraryService("/mac", "mac_", library.NewRecordStore(), blobs, fingerprint.Comparator{})
	_, err := svc.Missing(context.Background(), "pc_")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Missing() error = %v, want a plain load failure", err)
	}
}
