package vision

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newSidecar(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL + "/", TimeoutSeconds: 5})
}

func readImage(t *testing.T, r *http.Request) []byte {
	t.Helper()
	file, _, err := r.FormFile("image")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		t.Fatalf("read form file: %v", err)
	}
	return data
}

func TestDetectObjectsUploadsFrame(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/detect" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := string(readImage(t, r)); got != "jpeg-bytes" {
			t.Fatalf("unexpected upload %q", got)
		}
		_, _ = io.WriteString(w, `{"detections":[{"class_id":0,"label":"person","confidence":0.91,"box":[1,2,3,4]},{"class_id":56,"label":"chair"}]}`)
	})

	dets, err := client.DetectObjects(context.Background(), []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("DetectObjects: %v", err)
	}
	if len(dets) != 2 || !dets[0].IsPerson() || dets[1].IsPerson() {
		t.Fatalf("unexpected detections %+v", dets)
	}
	if dets[0].Box != (Box{1, 2, 3, 4}) {
		t.Fatalf("unexpected box %v", dets[0].Box)
	}
}

func TestDetectFacesSendsConfidence(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("conf"); got != "0.5" {
			t.Fatalf("expected conf=0.5, got %q", got)
		}
		_, _ = io.WriteString(w, `{"faces":[{"box":[10,10,50,60],"confidence":0.8}]}`)
	})
	faces, err := client.DetectFaces(context.Background(), []byte("x"), 0.5)
	if err != nil {
		t.Fatalf("DetectFaces: %v", err)
	}
	if len(faces) != 1 || faces[0].Confidence != 0.8 {
		t.Fatalf("unexpected faces %+v", faces)
	}
}

func TestClassifyEmotionRequiresDominant(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"emotions":{"happy":0.9}}`)
	})
	if _, err := client.ClassifyEmotion(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error when dominant_emotion is missing")
	}
}

func TestEstimatePoseNoLandmarks(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"landmarks":[]}`)
	})
	_, ok, err := client.EstimatePose(context.Background(), []byte("x"), 0)
	if err != nil || ok {
		t.Fatalf("expected no pose without error, got ok=%v err=%v", ok, err)
	}
}

func TestNon200IncludesBody(t *testing.T) {
	client := newSidecar(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	})
	_, _, err := client.EstimatePose(context.Background(), []byte("x"), 0)
	if err == nil || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("expected body in error, got %v", err)
	}
	if err := client.Health(context.Background()); err == nil {
		t.Fatal("expected health failure")
	}
}

func TestEmptyImageRejected(t *testing.T) {
	client := NewClient(Config{URL: "http://127.0.0.1:1"})
	if _, err := client.DetectObjects(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestPoseAt(t *testing.T) {
	pose := Pose{Landmarks: make([]Landmark, 17)}
	pose.Landmarks[RightWrist] = Landmark{X: 0.7}
	if lm, ok := pose.At(RightWrist); !ok || lm.X != 0.7 {
		t.Fatalf("unexpected landmark %+v ok=%v", lm, ok)
	}
	if _, ok := pose.At(25); ok {
		t.Fatal("expected out-of-range landmark to be missing")
	}
}
