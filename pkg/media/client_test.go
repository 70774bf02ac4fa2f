package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coursehub/coursehub-api/pkg/config"
)

func TestFileTypeForMIME(t *testing.T) {
	cases := map[string]string{
		"application/pdf": "pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
		"application/zip": "zip",
		"video/mp4":       "video",
		"image/png":       "image",
		"text/plain":      "file",
	}
	for mime, want := range cases {
		require.Equal(t, want, FileTypeForMIME(mime), mime)
	}
}

func TestUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		require.Equal(t, "courses/course-1", r.FormValue("folder"))
		require.Equal(t, "key", r.FormValue("api_key"))
		require.NotEmpty(t, r.FormValue("timestamp"))
		require.NotEmpty(t, r.FormValue("signature"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "notes.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://cdn.example/notes.pdf","public_id":"courses/course-1/abc","bytes":11}`))
	}))
	defer server.Close()

	client := NewClient(config.MediaConfig{
		UploadURL:      server.URL,
		APIKey:         "key",
		APISecret:      "secret",
		RequestTimeout: 5 * time.Second,
	})

	asset, err := client.Upload(context.Background(), "courses/course-1", "notes.pdf", strings.NewReader("hello world"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/notes.pdf", asset.URL)
	require.Equal(t, "courses/course-1/abc", asset.PublicID)
}

func TestUploadHostError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(config.MediaConfig{
		UploadURL:      server.URL,
		APIKey:         "key",
		APISecret:      "secret",
		RequestTimeout: 5 * time.Second,
	})

	_, err := client.Upload(context.Background(), "courses/course-1", "notes.pdf", strings.NewReader("x"))
	require.Error(t, err)
}

func TestSignStable(t *testing.T) {
	client := NewClient(config.MediaConfig{APISecret: "secret"})
	first := client.sign(map[string]string{"timestamp": "100", "folder": "courses/a"})
	second := client.sign(map[string]string{"folder": "courses/a", "timestamp": "100"})
	require.Equal(t, first, second)
}
