/*
Copyright © 2024 the plume authors.
This file is part of plume.

plume is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

plume is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with plume.  If not, see <http://www.gnu.org/licenses/>.
*/

package plumeutil

import (
	"encoding/json"
	"image/png"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/plume"
	"github.com/spatialmodel/plume/plumeplot"
)

func testServer() *httptest.Server {
	log := logrus.New()
	log.Out = ioutil.Discard
	o := plumeplot.DefaultOptions()
	o.Width, o.Height = 300, 200
	return httptest.NewServer(NewServer(plume.Parameters{D: 5}, o, log))
}

func TestServerImage(t *testing.T) {
	s := testServer()
	defer s.Close()

	resp, err := http.Get(s.URL + "/plume.png?Q=1000&U=2&Z0=0.1&Cs=1e9&Levels=8")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := ioutil.ReadAll(resp.Body)
		t.Fatalf("status %d: %s", resp.StatusCode, b)
	}
	if w := resp.Header.Get("X-Plume-Warning"); w != plume.ThresholdWarning {
		t.Errorf("warning = %q", w)
	}
	if resp.Header.Get("X-Plume-Reach") == "" {
		t.Error("missing reach")
	}
	if _, err := png.Decode(resp.Body); err != nil {
		t.Errorf("decoding image: %v", err)
	}
}

func TestServerReach(t *testing.T) {
	s := testServer()
	defer s.Close()

	resp, err := http.Get(s.URL + "/reach?Q=0&U=2&Cs=3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var r ReachResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		t.Fatal(err)
	}
	if !r.Clamped || r.EffectiveCs != 0 || r.Reach == nil || *r.Reach != 295 {
		t.Errorf("reach = %+v", r)
	}
}

func TestReachResponseJSON(t *testing.T) {
	b, err := json.Marshal(ReachResponse{EffectiveCs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"effective_cs":1,"reach":null,"clamped":false}` {
		t.Errorf("json = %s", b)
	}
}

func TestServerBadRequest(t *testing.T) {
	s := testServer()
	defer s.Close()

	for _, q := range []string{
		"/reach?Q=1000&U=0",
		"/reach?Q=1000&U=2&D=-1",
		"/reach?Q=abc&U=2",
		"/plume.png?Q=1000&U=2&Levels=x",
		"/plume.png?Q=1000&U=2&Levels=1",
		"/plume.png?Q=1000&U=2&Levels=257",
		"/plume.png?Q=1000&U=2&Levels=1125899906842624",
		"/reach?Q=1000&U=2&D=0.2",
		"/plume.png?Q=1000&U=2&D=0.08",
	} {
		resp, err := http.Get(s.URL + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d; want %d", q, resp.StatusCode, http.StatusBadRequest)
		}
	}
}

func TestServerGridLimit(t *testing.T) {
	log := logrus.New()
	log.Out = ioutil.Discard
	srv := NewServer(plume.Parameters{D: 5}, plumeplot.DefaultOptions(), log)
	if err := srv.checkGridSize(5); err != nil {
		t.Errorf("default grid rejected: %v", err)
	}
	if err := srv.checkGridSize(0.2); err == nil {
		t.Error("expected an error for a 1250×1005 grid")
	}
	srv.MaxGridPoints = 0
	if err := srv.checkGridSize(0.2); err != nil {
		t.Errorf("unlimited server rejected grid: %v", err)
	}
}
