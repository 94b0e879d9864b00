package ingestion

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Date,Close,Volume
2024-01-02,4742.83,1000
2024-01-03,4704.81,1100
2024-01-04,4688.68,900
`

func TestReadCSV_ParsesRows(t *testing.T) {
	res, err := ReadCSV(strings.NewReader(sampleCSV), "SPX")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if res.Series.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", res.Series.Len())
	}
	if res.Rejected != 0 {
		t.Errorf("expected 0 rejected rows, got %d", res.Rejected)
	}
	first := res.Series.Points[0]
	if !first.Date.Equal(time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected first date %s", first.Date)
	}
	if first.Close != 4742.83 {
		t.Errorf("unexpected first close %f", first.Close)
	}
}

func TestReadCSV_SortsNewestFirstExports(t *testing.T) {
	csv := "Date,Close\n2024-01-04,3\n2024-01-03,2\n2024-01-02,1\n"

	res, err := ReadCSV(strings.NewReader(csv), "VIX")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	for i, want := range []float64{1, 2, 3} {
		if res.Series.Points[i].Close != want {
			t.Errorf("point %d: expected close %f, got %f", i, want, res.Series.Points[i].Close)
		}
	}
}

func TestReadCSV_CountsMalformedRows(t *testing.T) {
	csv := "Date,Close\n2024-01-02,100\nnot-a-date,101\n2024-01-03,bad\n2024-01-04,102\n"

	res, err := ReadCSV(strings.NewReader(csv), "SPX")
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if res.Series.Len() != 2 {
		t.Errorf("expected 2 valid points, got %d", res.Series.Len())
	}
	if res.Rejected != 2 {
		t.Errorf("expected 2 rejected rows, got %d", res.Rejected)
	}
}

func TestReadCSV_EmptySource(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Date,Close\n"), "SPX")
	if !errors.Is(err, ErrNoObservations) {
		t.Fatalf("expected ErrNoObservations, got %v", err)
	}
}

func TestReadCSV_DuplicateDatesRejected(t *testing.T) {
	csv := "Date,Close\n2024-01-02,100\n2024-01-02,101\n"

	_, err := ReadCSV(strings.NewReader(csv), "SPX")
	if err == nil {
		t.Fatal("expected error for duplicate dates")
	}
}

func TestFetch_DownloadsAndParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	res, err := Fetch(context.Background(), srv.Client(), srv.URL, "SPX")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if res.Series.Len() != 3 {
		t.Errorf("expected 3 points, got %d", res.Series.Len())
	}
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL, "SPX")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
