// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"errors"
	"log/slog"
	stdhttp "net/http"
	"testing"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-agent/internal/geocode"
	"github.com/wneessen/weather-agent/internal/http"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/testhelper"
)

const (
	cityFile   = "../../../../testdata/geocode-earth_berlin.json"
	emptyFile  = "../../../../testdata/geocode-earth_empty.json"
	testAPIKey = "test-api-key"
)

func TestNew(t *testing.T) {
	t.Run("provider name is correct", func(t *testing.T) {
		coder := New(http.New(logger.New(slog.LevelDebug)), language.English, testAPIKey)
		if coder.Name() != name {
			t.Errorf("expected provider name to be %q, got %q", name, coder.Name())
		}
	})
}

func TestGeocodeEarth_Search(t *testing.T) {
	t.Run("geocoding succeeds", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			if req.URL.Query().Get("api_key") != testAPIKey {
				t.Errorf("expected API key to be sent")
			}
			if req.URL.Query().Get("text") != "Berlin, DE" {
				t.Errorf("unexpected search text: %q", req.URL.Query().Get("text"))
			}
			return testhelper.FileResponse(t, 200, cityFile)(req)
		}
		coder := testCoderWithRoundtripFunc(t, rtFn)
		place, err := coder.Search(t.Context(), "Berlin", "DE")
		if err != nil {
			t.Fatal(err)
		}
		if place.Name != "Berlin" || place.CountryCode != "DE" || place.DisplayName != "Berlin, Germany" {
			t.Errorf("unexpected place: %+v", place)
		}
		want := geocode.Coordinate{Lat: 52.52045, Lon: 13.40732}
		if place.Coordinate != want {
			t.Errorf("expected coordinates %+v, got %+v", want, place.Coordinate)
		}
	})
	t.Run("unknown place is not found", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, 200, emptyFile))
		if _, err := coder.Search(t.Context(), "Atlantis", ""); !errors.Is(err, geocode.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
	t.Run("non-200 response fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, 401, emptyFile))
		_, err := coder.Search(t.Context(), "Berlin", "")
		var statusErr *geocode.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected a status error, got %v", err)
		}
		if statusErr.Status != 401 {
			t.Errorf("expected status 401, got %d", statusErr.Status)
		}
	})
}

func testCoderWithRoundtripFunc(_ *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) geocode.Geocoder {
	testHttpClient := http.New(logger.New(slog.LevelDebug))
	testHttpClient.Transport = testhelper.MockRoundTripper{Fn: fn}
	return New(testHttpClient, language.English, testAPIKey)
}
