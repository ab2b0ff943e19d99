package sample

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultSchema_DemoFields(t *testing.T) {
	form, err := DefaultSchema()
	if err != nil {
		t.Fatalf("parse default sample: %v", err)
	}

	want := []string{"name", "email", "industry", "companySize", "timeline", "comments"}
	if diff := cmp.Diff(want, form.FieldIDs()); diff != "" {
		t.Fatalf("field ids mismatch (-want +got):\n%s", diff)
	}
	if len(form.Warnings) != 0 {
		t.Fatalf("default sample should not carry warnings: %v", form.Warnings)
	}
}

func TestFetcher_FetchIndentsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != Path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"formTitle":"T","formDescription":"","fields":[{"id":"a","type":"text","label":"A"}]}`))
	}))
	defer server.Close()

	fetcher, err := NewFetcher(server.URL + "/")
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	got, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := `{
  "formTitle": "T",
  "formDescription": "",
  "fields": [
    {
      "id": "a",
      "type": "text",
      "label": "A"
    }
  ]
}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("indented sample mismatch (-want +got):\n%s", diff)
	}
}

func TestFetcher_Failures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, fe *FetchError)
	}{
		{
			name: "status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			check: func(t *testing.T, fe *FetchError) {
				if fe.StatusCode != http.StatusInternalServerError {
					t.Fatalf("expected status 500, got %d", fe.StatusCode)
				}
			},
		},
		{
			name: "content type",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html></html>"))
			},
			check: func(t *testing.T, fe *FetchError) {
				if !errors.Is(fe, ErrNotJSON) || fe.ContentType != "text/html" {
					t.Fatalf("expected ErrNotJSON for text/html, got %v", fe)
				}
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"formTitle":`))
			},
			check: func(t *testing.T, fe *FetchError) {
				if fe.Err == nil {
					t.Fatalf("expected decode error")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			fetcher, err := NewFetcher(server.URL + "/sample.json")
			if err != nil {
				t.Fatalf("new fetcher: %v", err)
			}
			_, err = fetcher.Fetch(context.Background())
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %T %v", err, err)
			}
			if fe.URL != server.URL+"/sample.json" {
				t.Fatalf("unexpected url %s", fe.URL)
			}
			tc.check(t, fe)
		})
	}
}

func TestNewFetcher_ResolvesURL(t *testing.T) {
	fetcher, err := NewFetcher("http://localhost:8080/app")
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	if fetcher.URL() != "http://localhost:8080/app/data.json" {
		t.Fatalf("unexpected url %s", fetcher.URL())
	}

	for _, bad := range []string{"", "ftp://example.com", "::"} {
		if _, err := NewFetcher(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
