package imagestore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["type"] != "upload" {
			t.Fatalf("type = %q, want upload", body["type"])
		}
		if body["payload"] != "AAAA" {
			t.Fatalf("payload = %q", body["payload"])
		}
		if body["mimeType"] != "image/jpeg" {
			t.Fatalf("mimeType = %q", body["mimeType"])
		}
		if body["folderId"] != "folder-1" {
			t.Fatalf("folderId = %q", body["folderId"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"url":     "https://files.example.com/proof.jpg",
		})
	}))
	defer srv.Close()

	up := NewHTTPUploader(srv.URL)
	url, err := up.Upload(context.Background(), "data:image/jpeg;base64,AAAA", "proof.jpg", "folder-1")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://files.example.com/proof.jpg" {
		t.Fatalf("url = %q", url)
	}
}

func TestUpload_GatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "quota exceeded"})
	}))
	defer srv.Close()

	up := NewHTTPUploader(srv.URL)
	_, err := up.Upload(context.Background(), "data:image/png;base64,BBBB", "p.png", "f")
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
}

func TestUpload_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	up := NewHTTPUploader(srv.URL)
	_, err := up.Upload(context.Background(), "data:image/png;base64,BBBB", "p.png", "f")
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
}

func TestSplitDataURL(t *testing.T) {
	payload, mime, err := splitDataURL("data:image/jpeg;base64,Zm9v")
	if err != nil {
		t.Fatalf("splitDataURL: %v", err)
	}
	if payload != "Zm9v" || mime != "image/jpeg" {
		t.Fatalf("got payload=%q mime=%q", payload, mime)
	}
	if _, _, err := splitDataURL("not a data url"); err == nil {
		t.Fatal("expected error for malformed data url")
	}
}
