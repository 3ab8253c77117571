package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
)

// testPNG returns an encoded image of the given size.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestVision(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient("test-key")
	client.SetBaseURL(server.URL)
	return client, server
}

type countingRecorder struct {
	query, point, reasoning, detections int
}

func (r *countingRecorder) RecordQueryCall()     { r.query++ }
func (r *countingRecorder) RecordPointCall()     { r.point++ }
func (r *countingRecorder) RecordReasoningCall() { r.reasoning++ }
func (r *countingRecorder) RecordDetection(source string) {
	r.detections++
}

func TestQuery(t *testing.T) {
	var gotAuth string
	var gotReq queryRequest
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]string{"answer": "a settings screen"})
	})
	defer server.Close()

	rec := &countingRecorder{}
	client.SetRecorder(rec)

	answer, err := client.Query(context.Background(), testPNG(t, 100, 200), "what screen is this?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "a settings screen" {
		t.Errorf("answer = %q", answer)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReq.Question != "what screen is this?" {
		t.Errorf("question = %q", gotReq.Question)
	}
	if gotReq.Image == "" {
		t.Error("image payload missing")
	}
	if rec.query != 1 {
		t.Errorf("query calls = %d, want 1", rec.query)
	}
}

func TestQueryEmptyAnswer(t *testing.T) {
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"answer": ""})
	})
	defer server.Close()

	_, err := client.Query(context.Background(), testPNG(t, 10, 10), "q")
	if !errors.Is(err, core.ErrEmptyAnswer) {
		t.Errorf("err = %v, want ErrEmptyAnswer", err)
	}
}

func TestQueryBadKeyNotRetried(t *testing.T) {
	var calls int
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer server.Close()

	_, err := client.Query(context.Background(), testPNG(t, 10, 10), "q")
	if !errors.Is(err, core.ErrVisionUnavailable) {
		t.Errorf("err = %v, want ErrVisionUnavailable", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, 4xx should not be retried", calls)
	}
}

func TestQueryRetriesServerErrors(t *testing.T) {
	var calls int
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "ok"})
	})
	defer server.Close()

	answer, err := client.Query(context.Background(), testPNG(t, 10, 10), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "ok" {
		t.Errorf("answer = %q", answer)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestLocateArrayForm(t *testing.T) {
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/point" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"point": []float64{0.4, 0.6},
		})
	})
	defer server.Close()

	rec := &countingRecorder{}
	client.SetRecorder(rec)

	pt, err := client.Locate(context.Background(), testPNG(t, 10, 10), "login button")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.X != 0.4 || pt.Y != 0.6 {
		t.Errorf("point = %+v", pt)
	}
	if rec.point != 1 || rec.detections != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestLocateObjectForm(t *testing.T) {
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"point": map[string]float64{"x": 0.25, "y": 0.75},
		})
	})
	defer server.Close()

	pt, err := client.Locate(context.Background(), testPNG(t, 10, 10), "icon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.X != 0.25 || pt.Y != 0.75 {
		t.Errorf("point = %+v", pt)
	}
}

func TestLocatePointsListForm(t *testing.T) {
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"points": []map[string]float64{{"x": 0.1, "y": 0.2}, {"x": 0.9, "y": 0.9}},
		})
	})
	defer server.Close()

	pt, err := client.Locate(context.Background(), testPNG(t, 10, 10), "item")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.X != 0.1 || pt.Y != 0.2 {
		t.Errorf("point = %+v, want first entry", pt)
	}
}

func TestLocateNotFound(t *testing.T) {
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer server.Close()

	_, err := client.Locate(context.Background(), testPNG(t, 10, 10), "ghost button")
	if !errors.Is(err, core.ErrElementNotFound) {
		t.Errorf("err = %v, want ErrElementNotFound", err)
	}
}

func TestLocateInvalidCoordinates(t *testing.T) {
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"point": []float64{1.5, 0.5},
		})
	})
	defer server.Close()

	_, err := client.Locate(context.Background(), testPNG(t, 10, 10), "x")
	if !errors.Is(err, core.ErrInvalidCoordinates) {
		t.Errorf("err = %v, want ErrInvalidCoordinates", err)
	}
}

func TestCheckVisibility(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"Yes", true},
		{"yes, it is visible", true},
		{"No", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"answer": tt.answer})
			})
			defer server.Close()

			visible, err := client.CheckVisibility(context.Background(), testPNG(t, 10, 10), "cart icon")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if visible != tt.want {
				t.Errorf("visible = %v, want %v", visible, tt.want)
			}
		})
	}
}

func TestNavigationSuggestion(t *testing.T) {
	tests := []struct {
		answer  string
		want    string
		wantErr bool
	}{
		{"scroll down", "scroll down", false},
		{"Click Settings", "click settings", false},
		{"press back", "press back", false},
		{"not possible", "not possible", false},
		{"the weather is nice", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"answer": tt.answer})
			})
			defer server.Close()

			got, err := client.NavigationSuggestion(context.Background(), testPNG(t, 10, 10), "logout")
			if tt.wantErr {
				if !errors.Is(err, core.ErrNavigationNotPossible) {
					t.Errorf("err = %v, want ErrNavigationNotPossible", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("suggestion = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	client, server := newTestVision(t, func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"answer": "yes"})
	})
	defer server.Close()

	ok, err := client.Validate(context.Background(), testPNG(t, 10, 10), "the cart is empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected validation to pass")
	}
}
